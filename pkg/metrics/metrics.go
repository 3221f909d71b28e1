// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carfinder_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinder_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal counts resolved conversation turns by kind (new, continuation, jump, compare).
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinder_turns_total",
			Help: "Resolved conversation turns",
		},
		[]string{"kind", "outcome"},
	)

	// TurnDuration tracks how long a turn takes end to end.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carfinder_turn_duration_seconds",
			Help:    "Conversation turn duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// CatalogQueriesTotal counts catalog lookups by backend and status.
	CatalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinder_catalog_queries_total",
			Help: "Catalog queries issued",
		},
		[]string{"backend", "status"},
	)

	// EmptyResultsTotal counts turns that matched no vehicles.
	EmptyResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carfinder_empty_results_total",
			Help: "Turns that matched no vehicles",
		},
	)

	// SessionsActive tracks conversations held by the in-memory store.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carfinder_sessions_active",
			Help: "Conversations held in memory",
		},
	)

	// RecorderErrorsTotal counts failed turn-record deliveries.
	RecorderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinder_recorder_errors_total",
			Help: "Failed turn record deliveries",
		},
		[]string{"recorder"},
	)
)

// RecordRequest records HTTP request metrics.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records a resolved turn.
func RecordTurn(kind, outcome string, duration float64) {
	TurnsTotal.WithLabelValues(kind, outcome).Inc()
	TurnDuration.WithLabelValues(kind).Observe(duration)
}

// RecordCatalogQuery records a catalog lookup.
func RecordCatalogQuery(backend string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CatalogQueriesTotal.WithLabelValues(backend, status).Inc()
}
