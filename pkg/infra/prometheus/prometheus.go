package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Content safety calls on long sources
	// fan out widely, hence the long tail.
	latencyBuckets = []float64{
		10, 25, 50,
		100, 250, 500,
		1000, 2500, 5000,
		10000, 30000, 60000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyhub_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safetyhub_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	CheckOutcomeTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyhub_check_outcomes_total",
			Help: "Check results by check name and status",
		},
		[]string{"check", "status"},
	)

	CheckLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safetyhub_check_latency_ms",
			Help:    "Time spent running a single check, chunk fan-out included",
			Buckets: latencyBuckets,
		},
		[]string{"check"},
	)

	ResourceSelectionTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyhub_resource_selections_total",
			Help: "Resources handed out by the load balancer",
		},
		[]string{"model", "resource"},
	)

	AuditRecordTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyhub_audit_records_total",
			Help: "Interactions appended to conversation audit logs",
		},
		[]string{"status"},
	)
)

type MetricsConfig struct {
	EnableLatency       bool // request and check latency histograms
	EnableCheckOutcomes bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:       true,
		EnableCheckOutcomes: true,
	}
}

var (
	Config   = DefaultMetricsConfig()
	initOnce sync.Once
)

// Initialize applies cfg and registers the runtime collectors. Only the
// first call registers; later calls just replace the config.
func Initialize(cfg MetricsConfig) {
	Config = cfg
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
