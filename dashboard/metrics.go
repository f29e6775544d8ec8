package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "healthpredict"

// Metrics tracks statistics fetches.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stale    *prometheus.CounterVec
}

// NewMetrics registers the dashboard collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dashboard",
			Name:      "fetches_total",
			Help:      "Statistics fetches by view and result.",
		}, []string{"view", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "dashboard",
			Name:      "fetch_duration_seconds",
			Help:      "Statistics fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dashboard",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer one was already committed.",
		}, []string{"view"}),
	}

	reg.MustRegister(m.fetches, m.duration, m.stale)
	return m
}

func (m *Metrics) observeFetch(view View, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(view.String(), result).Inc()
	m.duration.WithLabelValues(view.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) observeStale(view View) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(view.String()).Inc()
}
