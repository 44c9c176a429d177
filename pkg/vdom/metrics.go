package vdom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the reconciler's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vdomkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reconciler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the reconciler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vdomkit",
		Subsystem: "reconciler",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		Registry:  prometheus.DefaultRegisterer,
	}
}

const (
	resultRendered = "rendered"
	resultSkipped  = "skipped"
)

// Metrics holds the reconciler's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	passes       *prometheus.CounterVec
	passErrors   *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	nodesCreated prometheus.Counter
	nodesRemoved prometheus.Counter
	mounts       prometheus.Counter
	unmounts     prometheus.Counter
	updates      *prometheus.CounterVec
}

// NewMetrics creates and registers the reconciler metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Reconciliation passes by trigger",
			ConstLabels: config.ConstLabels,
		}, []string{"trigger"}),

		passErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_errors_total",
			Help:        "Reconciliation passes aborted by an error",
			ConstLabels: config.ConstLabels,
		}, []string{"trigger"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"trigger"}),

		nodesCreated: counter("nodes_created_total", "Live nodes created by mount"),
		nodesRemoved: counter("nodes_removed_total", "Live nodes detached by unmount"),
		mounts:       counter("components_mounted_total", "Stateful component instances mounted"),
		unmounts:     counter("components_unmounted_total", "Stateful component instances unmounted"),

		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_updates_total",
			Help:        "Stateful component updates by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

func (m *Metrics) pass(trigger string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(trigger).Inc()
	m.passDuration.WithLabelValues(trigger).Observe(d.Seconds())
	if err != nil {
		m.passErrors.WithLabelValues(trigger).Inc()
	}
}

func (m *Metrics) nodeCreated() {
	if m != nil {
		m.nodesCreated.Inc()
	}
}

func (m *Metrics) nodeRemoved() {
	if m != nil {
		m.nodesRemoved.Inc()
	}
}

func (m *Metrics) componentMounted() {
	if m != nil {
		m.mounts.Inc()
	}
}

func (m *Metrics) componentUnmounted() {
	if m != nil {
		m.unmounts.Inc()
	}
}

func (m *Metrics) componentUpdate(result string) {
	if m != nil {
		m.updates.WithLabelValues(result).Inc()
	}
}
