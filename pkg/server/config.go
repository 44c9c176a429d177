package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vdomkit/internal/config"
	"github.com/vango-dev/vdomkit/internal/demo"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

// Config configures a Server.
type Config struct {
	// Addr is the host:port ListenAndServe binds to.
	Addr string

	// App names the demo app every session renders.
	App string

	// Root builds the tree each session and the index page render.
	// Default: the demo app named by App.
	Root func() (*vdom.VNode, error)

	// MaxMessageSize is the largest client message accepted, in bytes.
	MaxMessageSize int64

	// ReadTimeout closes a session that sends nothing for this long.
	ReadTimeout time.Duration

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout time.Duration

	// EventBuffer is the capacity of each session's event queue. Events
	// arriving while it is full are dropped.
	EventBuffer int

	// MetricsNamespace prefixes server and reconciler metrics.
	MetricsNamespace string

	// MetricsPath is the route metrics are served on.
	MetricsPath string

	// Registry receives the server's collectors and backs the metrics
	// route. Default: a fresh prometheus.Registry.
	Registry *prometheus.Registry

	// Tracer records event and reconciliation spans.
	// Default: otel.Tracer("vdomkit").
	Tracer trace.Tracer

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger

	// CheckOrigin validates the WebSocket handshake origin. Default: the
	// upgrader's same-origin check.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config populated from config.New().
func DefaultConfig() *Config {
	return FromFile(config.New())
}

// FromFile converts a loaded vdomkit.json into a server Config.
func FromFile(c *config.Config) *Config {
	return &Config{
		Addr:             c.Server.Addr,
		App:              c.Server.App,
		MaxMessageSize:   c.Session.MaxMessageSize,
		ReadTimeout:      c.ReadTimeout(),
		WriteTimeout:     c.WriteTimeout(),
		EventBuffer:      c.Session.EventBuffer,
		MetricsNamespace: c.Metrics.Namespace,
		MetricsPath:      c.Metrics.Path,
		Tracer:           otel.Tracer(c.Tracing.Name),
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() *Config {
	d := FromFile(config.New())
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.App == "" {
		c.App = d.App
	}
	if c.Root == nil {
		app := c.App
		c.Root = func() (*vdom.VNode, error) { return demo.New(app) }
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = d.EventBuffer
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.Tracer == nil {
		c.Tracer = d.Tracer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return &c
}
