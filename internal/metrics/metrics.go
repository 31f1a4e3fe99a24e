// Package metrics holds the Prometheus collectors for widget runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters a widget run updates
type Metrics struct {
	Fetches *prometheus.CounterVec
	Runs    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "magazine",
			Name:      "fetches_total",
			Help:      "Payload fetches by outcome.",
		}, []string{"result"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "magazine",
			Name:      "runs_total",
			Help:      "Widget runs by final state.",
		}, []string{"state"}),
	}
	if reg != nil {
		reg.MustRegister(m.Fetches, m.Runs)
	}
	return m
}

// ObserveFetch counts one fetch outcome
func (m *Metrics) ObserveFetch(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.Fetches.WithLabelValues(result).Inc()
}

// ObserveRun counts one completed run
func (m *Metrics) ObserveRun(state string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(state).Inc()
}
