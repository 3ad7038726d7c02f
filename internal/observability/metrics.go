package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the observation API.
type Metrics struct {
	ObservationsAdded   prometheus.Counter
	ObservationsDeleted prometheus.Counter
	ValidationFailures  prometheus.Counter
	StoreErrors         prometheus.Counter

	// RequestDuration is labeled with method, matched route path, and status code.
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "observation_store",
			Name:      "observations_added_total",
			Help:      "Total observations accepted and persisted.",
		}),
		ObservationsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "observation_store",
			Name:      "observations_deleted_total",
			Help:      "Total observations removed from the collection.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "observation_store",
			Name:      "validation_failures_total",
			Help:      "Total add requests rejected for malformed or missing fields.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "observation_store",
			Name:      "store_errors_total",
			Help:      "Total requests that failed on the backing collection.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "observation_store",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route, and status.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path", "status"}),
	}

	prometheus.MustRegister(
		m.ObservationsAdded,
		m.ObservationsDeleted,
		m.ValidationFailures,
		m.StoreErrors,
		m.RequestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsAdded:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "observation_store", Name: "observations_added_total"}),
		ObservationsDeleted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "observation_store", Name: "observations_deleted_total"}),
		ValidationFailures:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "observation_store", Name: "validation_failures_total"}),
		StoreErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "observation_store", Name: "store_errors_total"}),
		RequestDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "observation_store", Name: "http_request_duration_seconds"}, []string{"method", "path", "status"}),
	}
}
