// Package metrics exposes Prometheus counters for webhook outcomes and downstream delivery failures.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered in a dedicated registry.
type Metrics struct {
	registry      *prometheus.Registry
	outcomes      *prometheus.CounterVec
	forwardErrors *prometheus.CounterVec
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wp_trigger",
			Name:      "outcomes_total",
			Help:      "WordPress webhook calls by trigger, outcome status and ignore reason.",
		}, []string{"trigger", "status", "reason"}),
		forwardErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wp_trigger",
			Name:      "forward_errors_total",
			Help:      "Accepted events a forwarder failed to deliver.",
		}, []string{"trigger", "forwarder"}),
	}
	m.registry.MustRegister(m.outcomes, m.forwardErrors)
	return m
}

// ObserveOutcome counts one evaluated webhook call. It is a no-op on a nil Metrics.
func (m *Metrics) ObserveOutcome(trigger, status, reason string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(trigger, status, reason).Inc()
}

// ObserveForwardError counts one failed delivery. It is a no-op on a nil Metrics.
func (m *Metrics) ObserveForwardError(trigger, forwarder string) {
	if m == nil {
		return
	}
	m.forwardErrors.WithLabelValues(trigger, forwarder).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
