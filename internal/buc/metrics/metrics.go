package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the case module.
type Metrics struct {
	// View builds by outcome ("ok", "failed")
	ViewBuilds *prometheus.CounterVec

	// Duration of a single fetch-and-build
	ViewBuildLatency prometheus.Histogram

	// Batch items executed in the caller goroutine because the pool was full
	BatchOverflow prometheus.Counter

	// Reconciliation plans by strategy ("noop", "direct", "mediated") or "rejected"
	Reconciliations *prometheus.CounterVec

	// Eligibility checks by result ("creatable", "rejected")
	CreatabilityChecks *prometheus.CounterVec
}

// New creates and registers the case module metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ViewBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casebridge_case_view_builds_total",
			Help: "Case view builds by outcome",
		}, []string{"outcome"}),

		ViewBuildLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casebridge_case_view_build_duration_seconds",
			Help:    "Duration of fetching and building one case view",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		BatchOverflow: factory.NewCounter(prometheus.CounterOpts{
			Name: "casebridge_case_view_batch_overflow_total",
			Help: "Batch items run synchronously because the worker pool was saturated",
		}),

		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casebridge_participant_reconciliations_total",
			Help: "Participant reconciliation plans by strategy",
		}, []string{"strategy"}),

		CreatabilityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casebridge_document_creatability_checks_total",
			Help: "Document creatability checks by result",
		}, []string{"result"}),
	}
}

// ObserveViewBuild records one view build.
func (m *Metrics) ObserveViewBuild(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.ViewBuilds.WithLabelValues(outcome).Inc()
	m.ViewBuildLatency.Observe(d.Seconds())
}

// IncBatchOverflow records a caller-runs batch item.
func (m *Metrics) IncBatchOverflow() {
	if m != nil {
		m.BatchOverflow.Inc()
	}
}

// IncReconciliation records a reconciliation plan or rejection.
func (m *Metrics) IncReconciliation(strategy string) {
	if m != nil {
		m.Reconciliations.WithLabelValues(strategy).Inc()
	}
}

// IncCreatabilityCheck records a creatability check result.
func (m *Metrics) IncCreatabilityCheck(creatable bool) {
	if m == nil {
		return
	}
	result := "creatable"
	if !creatable {
		result = "rejected"
	}
	m.CreatabilityChecks.WithLabelValues(result).Inc()
}
