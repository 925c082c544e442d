package caseapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes calls to the case-exchange API.
type Metrics struct {
	// Requests by operation and outcome (ok, not_found, forbidden, unavailable, ...)
	Requests *prometheus.CounterVec

	// Latency by operation
	Latency *prometheus.HistogramVec

	// 1 while the circuit breaker rejects calls
	CircuitOpen prometheus.Gauge
}

// NewMetrics registers the client metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casebridge_case_api_requests_total",
			Help: "Case API requests by operation and outcome",
		}, []string{"operation", "outcome"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casebridge_case_api_request_duration_seconds",
			Help:    "Case API request latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "casebridge_case_api_circuit_open",
			Help: "1 while the case API circuit breaker is open",
		}),
	}
}

func (m *Metrics) observe(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
	m.Latency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) setCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
