// Package metrics owns the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "leadhub"

// Metrics groups the collectors used by the HTTP layer and the services.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	reportDuration  *prometheus.HistogramVec
	reportFailures  *prometheus.CounterVec
	budgetOps       *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg leaves them unregistered,
// which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      "Time spent fetching and aggregating a report.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"report"}),
		reportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_fetch_failures_total",
			Help:      "Reports aborted because an input could not be fetched.",
		}, []string{"report", "resource"}),
		budgetOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_operations_total",
			Help:      "Budget mutations by operation and result.",
		}, []string{"operation", "result"}),
	}

	if reg != nil {
		reg.MustRegister(m.requestDuration, m.reportDuration, m.reportFailures, m.budgetOps)
	}
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveReport records how long building a report took.
func (m *Metrics) ObserveReport(report string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}

// ReportFetchFailed counts a report aborted by a failed fetch.
func (m *Metrics) ReportFetchFailed(report, resource string) {
	if m == nil {
		return
	}
	m.reportFailures.WithLabelValues(report, resource).Inc()
}

// BudgetOperation counts a budget mutation outcome ("ok", "invalid", "duplicate", "error").
func (m *Metrics) BudgetOperation(operation, result string) {
	if m == nil {
		return
	}
	m.budgetOps.WithLabelValues(operation, result).Inc()
}
