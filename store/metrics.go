package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "secret_store"

type metrics struct {
	decisions      *prometheus.CounterVec
	writes         prometheus.Counter
	notifyFailures prometheus.Counter
}

// newMetrics creates store metrics labeled by the store ID and registers
// them in reg if it is not nil.
func newMetrics(reg prometheus.Registerer, id string) *metrics {
	labels := prometheus.Labels{"store": id}

	m := &metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "access_decisions_total",
			Help:        "Number of access checks by operation and decision.",
			ConstLabels: labels,
		}, []string{"op", "decision"}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "writes_total",
			Help:        "Number of committed secret writes.",
			ConstLabels: labels,
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "notify_failures_total",
			Help:        "Number of committed writes the notifier failed to record.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.decisions, m.writes, m.notifyFailures)
	}

	return m
}

func (m *metrics) decision(op string, d Decision) {
	m.decisions.WithLabelValues(op, d.String()).Inc()
}
