package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MatchingMetrics exposes counters/histograms for doctor matching.
type MatchingMetrics struct {
	requestsTotal *prometheus.CounterVec
	matchLatency  prometheus.Histogram
	rosterSize    prometheus.Gauge
}

// NewMatchingMetrics registers the matching collectors on reg
// (prometheus.DefaultRegisterer when nil).
func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	m := &MatchingMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "matching",
			Name:      "requests_total",
			Help:      "Doctor matching requests by outcome",
		}, []string{"outcome"}),
		matchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "matching",
			Name:      "duration_seconds",
			Help:      "Time spent loading the roster and matching",
			Buckets:   prometheus.DefBuckets,
		}),
		rosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "matching",
			Name:      "roster_size",
			Help:      "Number of doctors in the last roster snapshot",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.matchLatency, m.rosterSize)
	return m
}

// ObserveOutcome counts one request. outcome is a match strategy or an error kind.
func (m *MatchingMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records the time since start.
func (m *MatchingMetrics) ObserveDuration(start time.Time) {
	if m == nil {
		return
	}
	m.matchLatency.Observe(time.Since(start).Seconds())
}

// SetRosterSize records the size of the roster used for matching.
func (m *MatchingMetrics) SetRosterSize(n int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(n))
}
