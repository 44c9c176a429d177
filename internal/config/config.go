package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vdomkit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vdomkit.json"

	// DefaultAddr is the default listen address of the live server.
	DefaultAddr = "localhost:3000"

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vdomkit"

	// DefaultMetricsPath is the default scrape path.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "vdomkit"

	// DefaultMaxMessageSize is the largest websocket message a session
	// accepts: one frame header plus a full payload.
	DefaultMaxMessageSize = 4 + 65535

	// DefaultReadTimeout is how long a session waits for a client message.
	DefaultReadTimeout = "60s"

	// DefaultWriteTimeout bounds a single websocket write.
	DefaultWriteTimeout = "10s"

	// DefaultEventBuffer is the capacity of a session's event queue.
	DefaultEventBuffer = 16
)

// Config represents the complete vdomkit.json configuration.
type Config struct {
	// Server contains live server configuration.
	Server ServerConfig `json:"server"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Session contains per-connection limits.
	Session SessionConfig `json:"session"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr,omitempty"`

	// App is the demo app served to each session: "counter" or "todo".
	App string `json:"app,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Path is the HTTP path metrics are served on.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Name is the tracer name reconciliation spans are recorded under.
	Name string `json:"name,omitempty"`
}

// SessionConfig contains websocket session limits.
type SessionConfig struct {
	// MaxMessageSize is the largest message read from a client, in bytes.
	MaxMessageSize int64 `json:"maxMessageSize,omitempty"`

	// ReadTimeout is a duration string such as "60s".
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout is a duration string such as "10s".
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// EventBuffer is the number of decoded events queued per session.
	EventBuffer int `json:"eventBuffer,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for vdomkit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads and validates configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E301").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create the file or omit --config to use the defaults")
		}
		return nil, errors.New("E301").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E301").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E301").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E301").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.App == "" {
		c.Server.App = "counter"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Tracing
	if c.Tracing.Name == "" {
		c.Tracing.Name = DefaultTracerName
	}

	// Session
	if c.Session.MaxMessageSize == 0 {
		c.Session.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Session.ReadTimeout == "" {
		c.Session.ReadTimeout = DefaultReadTimeout
	}
	if c.Session.WriteTimeout == "" {
		c.Session.WriteTimeout = DefaultWriteTimeout
	}
	if c.Session.EventBuffer == 0 {
		c.Session.EventBuffer = DefaultEventBuffer
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", c.Log.Format, `use "text" or "json"`)
	}
	switch c.Server.App {
	case "counter", "todo":
	default:
		return invalid("server.app", c.Server.App, `use "counter" or "todo"`)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", c.Metrics.Path, "the path must start with /")
	}
	if c.Session.MaxMessageSize < 4 {
		return invalid("session.maxMessageSize", c.Session.MaxMessageSize, "allow at least one frame header (4 bytes)")
	}
	if c.Session.EventBuffer < 1 {
		return invalid("session.eventBuffer", c.Session.EventBuffer, "use a positive queue size")
	}
	durations := []struct{ field, value string }{
		{"session.readTimeout", c.Session.ReadTimeout},
		{"session.writeTimeout", c.Session.WriteTimeout},
	}
	for _, d := range durations {
		if v, err := time.ParseDuration(d.value); err != nil || v <= 0 {
			return invalid(d.field, d.value, `use a positive Go duration such as "30s"`)
		}
	}
	return nil
}

// ReadTimeout returns the parsed session read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Session.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed session write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Session.WriteTimeout)
	return d
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, invalid("log.level", name, "use debug, info, warn or error")
	}
	return level, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

func invalid(field string, value any, suggestion string) error {
	return errors.New("E302").
		WithDetailf("%s = %v", field, value).
		WithSuggestion(suggestion)
}
