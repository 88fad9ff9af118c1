package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requestDuration  *prom.HistogramVec
	operationResults *prom.CounterVec
	rosterSize       prom.Gauge
	refreshInFlight  prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "hrmslite",
			Name:      "service_request_duration_seconds",
			Help:      "Duration of record service requests",
			Buckets:   prom.DefBuckets,
		}, []string{"operation", "result"}),
		operationResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hrmslite",
			Name:      "operation_results_total",
			Help:      "Coordinator operation outcomes",
		}, []string{"operation", "result"}),
		rosterSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: "hrmslite",
			Name:      "roster_size",
			Help:      "Employees held by the roster cache after the last successful refresh",
		}),
		refreshInFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: "hrmslite",
			Name:      "roster_refresh_in_flight",
			Help:      "Roster refreshes currently awaiting a response",
		}),
	}
	reg.MustRegister(pr.requestDuration, pr.operationResults, pr.rosterSize, pr.refreshInFlight)
	return pr
}

func (p *PrometheusRecorder) ObserveRequestDuration(operation string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.requestDuration.WithLabelValues(operation, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOperationResult(operation string, result ResultLabel) {
	if p == nil {
		return
	}
	p.operationResults.WithLabelValues(operation, string(result)).Inc()
}

func (p *PrometheusRecorder) SetRosterSize(n int) {
	if p == nil {
		return
	}
	p.rosterSize.Set(float64(n))
}

func (p *PrometheusRecorder) SetRefreshInFlight(n int) {
	if p == nil {
		return
	}
	p.refreshInFlight.Set(float64(n))
}
