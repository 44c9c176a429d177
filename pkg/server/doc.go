// Package server serves live vdomkit sessions over WebSocket.
//
// Each connection gets its own in-memory document and Renderer. The demo app
// is rendered into the document and the resulting mutation log is streamed to
// the browser, which replays it against the real DOM. User events travel back
// as (node ID, event type, value) frames; the session dispatches them to the
// listeners registered on the in-memory node, and any state changes the
// listeners cause are streamed back as the next mutation batch.
//
// # Concurrency
//
// A Renderer and its document are single-threaded. Each session runs one
// dispatcher goroutine that owns both; the WebSocket read loop decodes frames
// and hands events to the dispatcher over a buffered channel.
//
// # Routes
//
//	GET /           HTML snapshot of a fresh session plus the client script
//	GET /ws         WebSocket session
//	GET /client.js  Browser client
//	GET /healthz    Liveness check
//	GET /metrics    Prometheus metrics (path configurable)
package server
