package reactive

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
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
		Namespace: "ripple",
		Subsystem: "reactive",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// engineMetrics holds the Prometheus collectors for the engine. Hot paths
// check a single atomic pointer, so uninstrumented processes pay one load.
type engineMetrics struct {
	tracks     prometheus.Counter
	triggers   *prometheus.CounterVec
	effectRuns prometheus.Counter
	flushes    prometheus.Counter
	queueDepth prometheus.Gauge
}

var metricsState atomic.Pointer[engineMetrics]

// EnableMetrics registers the engine's Prometheus collectors and turns on
// instrumentation. Tracks, triggers (by operation), effect runs, flush
// passes, and scheduler queue depth are recorded.
//
// Example:
//
//	reactive.EnableMetrics(reactive.WithNamespace("myapp"))
func EnableMetrics(opts ...MetricsOption) {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	m := &engineMetrics{
		tracks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "tracks_total",
			Help:        "Dependency edges recorded by Track.",
			ConstLabels: cfg.ConstLabels,
		}),
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "triggers_total",
			Help:        "Mutations reported to the dependency graph.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Effect executions, initial runs included.",
			ConstLabels: cfg.ConstLabels,
		}),
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_passes_total",
			Help:        "Completed scheduler flush passes.",
			ConstLabels: cfg.ConstLabels,
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "queue_depth",
			Help:        "Jobs currently waiting in the flush queue.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
	metricsState.Store(m)
}

// DisableMetrics turns instrumentation off. Registered collectors remain in
// the registry; unregister through the registry if needed.
func DisableMetrics() {
	metricsState.Store(nil)
}
