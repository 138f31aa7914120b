// Package metrics exposes Prometheus counters for the remote connection.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "atvremote"

// Metrics holds the collectors, registered on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	frames    *prometheus.CounterVec
	closes    *prometheus.CounterVec
	events    *prometheus.CounterVec
	pairings  *prometheus.CounterVec
	commands  *prometheus.CounterVec
	connected prometheus.Gauge
}

// New creates and registers every collector, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Protocol frames by direction, schema and message kind.",
		}, []string{"direction", "schema", "kind"}),
		closes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_closes_total",
			Help:      "Remote connections ended or failed, by cause.",
		}, []string{"cause"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events delivered to the caller, by kind.",
		}, []string{"kind"}),
		pairings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairings_total",
			Help:      "Pairing attempts by result.",
		}, []string{"result"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Outbound commands by name and result.",
		}, []string{"command", "result"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while a remote session is established.",
		}),
	}
	m.registry.MustRegister(
		m.frames, m.closes, m.events, m.pairings, m.commands, m.connected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// FrameSent counts an encoded frame.
func (m *Metrics) FrameSent(schema, kind string) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues("sent", schema, kind).Inc()
}

// FrameReceived counts a decoded frame.
func (m *Metrics) FrameReceived(schema, kind string) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues("received", schema, kind).Inc()
}

// ConnectionClosed counts a closed or failed connection.
func (m *Metrics) ConnectionClosed(cause string) {
	if m == nil {
		return
	}
	m.closes.WithLabelValues(cause).Inc()
	m.connected.Set(0)
}

// Connected marks a session as established.
func (m *Metrics) Connected() {
	if m == nil {
		return
	}
	m.connected.Set(1)
}

// Event counts a delivered event.
func (m *Metrics) Event(kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// Pairing counts a pairing outcome: "paired", "bad_code" or "failed".
func (m *Metrics) Pairing(result string) {
	if m == nil {
		return
	}
	m.pairings.WithLabelValues(result).Inc()
}

// Command counts an outbound command.
func (m *Metrics) Command(name string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(name, result).Inc()
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
