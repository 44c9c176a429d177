// Package config loads vdomkit.json, the configuration of the live demo
// server and the CLI.
//
// # Configuration File Structure
//
//	{
//	  "server":  { "addr": "localhost:3000", "app": "counter" },
//	  "log":     { "level": "info", "format": "text" },
//	  "metrics": { "namespace": "vdomkit", "path": "/metrics" },
//	  "tracing": { "name": "vdomkit" },
//	  "session": {
//	    "maxMessageSize": 65539,
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "eventBuffer": 16
//	  }
//	}
//
// Every field is optional; missing fields take the Default* constants.
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Addr)
package config
