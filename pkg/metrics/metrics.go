// Package metrics provides Prometheus metrics for the padel ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Replay engine
	replayDuration prometheus.Histogram
	replayMatches  prometheus.Histogram
	replayErrors   prometheus.Counter

	// Stored state
	playersTotal prometheus.Gauge
	matchesTotal prometheus.Gauge

	// Storage failures
	storeErrors prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry keeps the default Go collectors out of /healthz output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "padel",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	if !m.enabled {
		return
	}
	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint and method.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.replayDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_seconds",
		Help:      "Full match-log replay latency.",
		Buckets:   m.histogramBuckets,
	})

	m.replayMatches = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_matches",
		Help:      "Number of matches folded per replay.",
		Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
	})

	m.replayErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_errors_total",
		Help:      "Replays aborted on an inconsistent match log.",
	})

	m.playersTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_total",
		Help:      "Registered players.",
	})

	m.matchesTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_total",
		Help:      "Recorded matches.",
	})

	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Storage operations that failed.",
	})
}

// GetRegistry returns the registry backing the global manager, for serving
// via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes one request's latency in seconds.
func RecordHTTPRequestDuration(endpoint, method string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
	}
}

// RecordReplay observes one completed replay.
func RecordReplay(seconds float64, matches int) {
	if globalManager.enabled {
		globalManager.replayDuration.Observe(seconds)
		globalManager.replayMatches.Observe(float64(matches))
	}
}

// RecordReplayError counts one aborted replay.
func RecordReplayError() {
	if globalManager.enabled {
		globalManager.replayErrors.Inc()
	}
}

// UpdatePlayersTotal sets the registered-players gauge.
func UpdatePlayersTotal(n int) {
	if globalManager.enabled {
		globalManager.playersTotal.Set(float64(n))
	}
}

// UpdateMatchesTotal sets the recorded-matches gauge.
func UpdateMatchesTotal(n int) {
	if globalManager.enabled {
		globalManager.matchesTotal.Set(float64(n))
	}
}

// RecordStoreError counts one failed storage operation.
func RecordStoreError() {
	if globalManager.enabled {
		globalManager.storeErrors.Inc()
	}
}
