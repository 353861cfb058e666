package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are safe
// on a nil receiver so tests can pass nil instead of registering collectors.
type Metrics struct {
	ProcedureCalls         *prometheus.CounterVec
	ReconciliationFailures prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProcedureCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medix_procedure_calls_total",
			Help: "Total number of stored procedure invocations by procedure name and outcome",
		}, []string{"procedure", "outcome"}),
		ReconciliationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medix_reconciliation_failures_total",
			Help: "Total number of post-procedure reconciliation reads that found nothing",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medix_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// ObserveProcedureCall records one procedure invocation.
func (m *Metrics) ObserveProcedureCall(procedure string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProcedureCalls.WithLabelValues(procedure, outcome).Inc()
}

// IncrementReconciliationFailures records a created-but-not-retrievable event.
func (m *Metrics) IncrementReconciliationFailures() {
	if m == nil {
		return
	}
	m.ReconciliationFailures.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, status).Observe(elapsed.Seconds())
}
