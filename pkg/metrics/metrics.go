// Package metrics provides Prometheus metrics for Quasar's polling and
// verification paths. Metrics are registered automatically via promauto
// and are safe for concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbeInvocations tracks the total number of status probe invocations.
	// Labels: result (success/error)
	//
	// Example:
	//	metrics.ProbeInvocations.WithLabelValues("success").Inc()
	ProbeInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quasar_probe_invocations_total",
			Help: "Total number of status probe invocations",
		},
		[]string{"result"},
	)

	// ProbeLatency tracks the distribution of single-probe latencies in
	// seconds. Buckets cover the range from local-cache hits to slow
	// warehouse metadata queries.
	ProbeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quasar_probe_latency_seconds",
			Help:    "Status probe latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	// Verifications tracks completed verification calls by final outcome.
	// Labels: outcome (completed/failed/timeout/fault)
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quasar_verifications_total",
			Help: "Total number of job completion verifications by outcome",
		},
		[]string{"outcome"},
	)

	// BackoffDelay reports the most recent inter-probe delay in seconds.
	BackoffDelay = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quasar_backoff_delay_seconds",
			Help: "Current inter-probe backoff delay in seconds",
		},
	)
)

// ObserveProbe records one probe invocation with its latency.
func ObserveProbe(d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProbeInvocations.WithLabelValues(result).Inc()
	ProbeLatency.Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
