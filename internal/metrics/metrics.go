// Package metrics provides centralized Prometheus metrics registry for the calculator service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "simulations_total",
		Help:      "Total number of simulator runs by sport",
	}, []string{"sport"})
	InputErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "input_errors_total",
		Help:      "Total number of rejected input fields by kind",
	}, []string{"kind"})
	LegsAddedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "parlay_legs_added_total",
		Help:      "Total number of legs added to parlay carts",
	})
	LegsRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "parlay_legs_removed_total",
		Help:      "Total number of legs removed from parlay carts",
	})
	ParlayEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "parlay_evaluations_total",
		Help:      "Total number of parlay aggregate evaluations",
	})
	TrackerEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moneyball",
		Name:      "tracker_entries_total",
		Help:      "Total number of tracker entries recorded",
	})
)

// Gauge metrics
var (
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "moneyball",
		Name:      "active_sessions",
		Help:      "Number of live calculator sessions",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moneyball",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of simulator runs in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"sport"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moneyball",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(InputErrorsTotal)
		registry.MustRegister(LegsAddedTotal)
		registry.MustRegister(LegsRemovedTotal)
		registry.MustRegister(ParlayEvaluationsTotal)
		registry.MustRegister(TrackerEntriesTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveSessions)

		// Register histogram metrics
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records a simulator run.
func RecordSimulation(sport string, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(sport).Inc()
	SimulationDuration.WithLabelValues(sport).Observe(durationSeconds)
}

// RecordInputError records one rejected input field.
func RecordInputError(kind string) {
	InputErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordLegAdded records a leg added to a cart.
func RecordLegAdded() {
	LegsAddedTotal.Inc()
}

// RecordLegsRemoved records legs removed from a cart.
func RecordLegsRemoved(count int) {
	LegsRemovedTotal.Add(float64(count))
}

// RecordParlayEvaluation records a parlay aggregate evaluation.
func RecordParlayEvaluation() {
	ParlayEvaluationsTotal.Inc()
}

// RecordTrackerEntry records a tracker ledger write.
func RecordTrackerEntry() {
	TrackerEntriesTotal.Inc()
}

// UpdateActiveSessions updates the active sessions gauge.
func UpdateActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request duration.
func RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}
