package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vbind/pkg/binding"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// FanoutBuckets are the histogram buckets for subscribers per change.
	FanoutBuckets []float64

	// DurationBuckets are the histogram buckets for cascade duration.
	// Default: prometheus.DefBuckets
	DurationBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithBuckets sets the cascade duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.DurationBuckets = buckets
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
		Namespace:       "vbind",
		FanoutBuckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		DurationBuckets: prometheus.DefBuckets,
		Registry:        prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors.
type metrics struct {
	writesTotal    *prometheus.CounterVec
	rendersTotal   *prometheus.CounterVec
	bindingsTotal  *prometheus.CounterVec
	notifyFanout   prometheus.Histogram
	notifyDuration prometheus.Histogram
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	protocolErrors *prometheus.CounterVec
}

// globalMetrics is created on the first call to Prometheus.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Writes to observed keys by result (changed or skipped)",
			ConstLabels: config.ConstLabels,
		}, []string{"key", "result"}),

		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Watcher renders by target kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		bindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings_total",
			Help:        "Directives wired during compilation",
			ConstLabels: config.ConstLabels,
		}, []string{"directive"}),

		notifyFanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_fanout",
			Help:        "Subscribers notified per changing write",
			ConstLabels: config.ConstLabels,
			Buckets:     config.FanoutBuckets,
		}),

		notifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Time spent re-rendering subscribers after a change",
			ConstLabels: config.ConstLabels,
			Buckets:     config.DurationBuckets,
		}),

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of live websocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of websocket sessions started",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Client events applied by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of property patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		protocolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "protocol_errors_total",
			Help:        "Rejected client messages by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),
	}
}

// PrometheusObserver records engine events as Prometheus metrics.
// It is safe to share between instances.
type PrometheusObserver struct {
	m *metrics
}

// Prometheus returns the metrics observer.
//
// Collectors are registered once, on the first call; later calls share
// them and ignore their options.
//
// Metrics collected:
//   - vbind_writes_total: writes to observed keys by key and result
//   - vbind_renders_total: watcher renders by kind
//   - vbind_bindings_total: directives wired by directive
//   - vbind_notify_fanout: subscribers notified per change
//   - vbind_notify_duration_seconds: cascade duration
//   - vbind_active_sessions, vbind_sessions_total, vbind_events_total,
//     vbind_patches_sent_total, vbind_protocol_errors_total: live server
func Prometheus(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return &PrometheusObserver{m: m}
}

// WriteSkipped counts a write that carried the current value.
func (p *PrometheusObserver) WriteSkipped(key string) {
	p.m.writesTotal.WithLabelValues(key, "skipped").Inc()
}

// NotifyStarted counts a changing write and times its cascade.
func (p *PrometheusObserver) NotifyStarted(key string, subscribers int) func() {
	p.m.writesTotal.WithLabelValues(key, "changed").Inc()
	p.m.notifyFanout.Observe(float64(subscribers))
	start := time.Now()
	return func() {
		p.m.notifyDuration.Observe(time.Since(start).Seconds())
	}
}

// Rendered counts a watcher render.
func (p *PrometheusObserver) Rendered(kind binding.Kind, key string) {
	p.m.rendersTotal.WithLabelValues(string(kind)).Inc()
}

// Bound counts a wired directive.
func (p *PrometheusObserver) Bound(d binding.Directive, key string) {
	p.m.bindingsTotal.WithLabelValues(string(d)).Inc()
}

// =============================================================================
// Server Recording Functions
// =============================================================================

// RecordSessionStart records a new live session.
func RecordSessionStart() {
	if m := current(); m != nil {
		m.sessionsActive.Inc()
		m.sessionsTotal.Inc()
	}
}

// RecordSessionEnd records a closed live session.
func RecordSessionEnd() {
	if m := current(); m != nil {
		m.sessionsActive.Dec()
	}
}

// RecordEvent records an applied client event.
func RecordEvent(eventType string) {
	if m := current(); m != nil {
		m.eventsTotal.WithLabelValues(eventType).Inc()
	}
}

// RecordPatches records the number of patches sent to a client.
func RecordPatches(count int) {
	if m := current(); m != nil {
		m.patchesSent.Add(float64(count))
	}
}

// RecordProtocolError records a rejected client message.
func RecordProtocolError(reason string) {
	if m := current(); m != nil {
		m.protocolErrors.WithLabelValues(reason).Inc()
	}
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}
