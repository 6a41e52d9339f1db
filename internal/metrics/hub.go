// Package metrics provides Prometheus metrics for the MIDI hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HubMetrics contains Prometheus metrics for hub dispatch and routing.
type HubMetrics struct {
	eventsDispatched   prometheus.Counter
	messagesDispatched prometheus.Counter
	sends              *prometheus.CounterVec
	failures           *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewHubMetrics creates hub metrics and registers them on registry when it
// is non-nil.
func NewHubMetrics(registry *prometheus.Registry) (*HubMetrics, error) {
	m := &HubMetrics{}
	m.initMetrics()
	if registry == nil {
		return m, nil
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *HubMetrics) initMetrics() {
	m.eventsDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gong_hub_events_dispatched_total",
		Help: "Total number of platform events processed by the hub",
	})
	m.messagesDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gong_hub_messages_dispatched_total",
		Help: "Total number of inbound MIDI messages processed by the hub",
	})
	m.sends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gong_hub_sends_total",
			Help: "Total number of leaf send attempts",
		},
		[]string{"result"}, // ok, error, skipped
	)
	m.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gong_hub_failures_total",
			Help: "Total number of swallowed failures",
		},
		[]string{"op"},
	)

	m.collectors = []prometheus.Collector{
		m.eventsDispatched,
		m.messagesDispatched,
		m.sends,
		m.failures,
	}
}

// Describe implements prometheus.Collector
func (m *HubMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (m *HubMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordEventDispatched counts one processed event.
func (m *HubMetrics) RecordEventDispatched() {
	m.eventsDispatched.Inc()
}

// RecordMessageDispatched counts one processed message.
func (m *HubMetrics) RecordMessageDispatched() {
	m.messagesDispatched.Inc()
}

// RecordSend counts one leaf send attempt with result ok, error or skipped.
func (m *HubMetrics) RecordSend(result string) {
	m.sends.WithLabelValues(result).Inc()
}

// RecordFailure counts one swallowed failure of op.
func (m *HubMetrics) RecordFailure(op string) {
	m.failures.WithLabelValues(op).Inc()
}
