package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dm"

// Metrics groups every collector of the subsystem on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	hubConnections prometheus.Gauge
	hubSuperseded  prometheus.Counter
	pushes         *prometheus.CounterVec
	messages       *prometheus.CounterVec
	roomsDeleted   prometheus.Counter
	gateRejections prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		hubConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hub_connections",
			Help:      "Live connections currently registered in the hub.",
		}),
		hubSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_superseded_total",
			Help:      "Connections closed because the same user registered again.",
		}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_total",
			Help:      "Live pushes by result.",
		}, []string{"result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages appended by kind.",
		}, []string{"kind"}),
		roomsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_deleted_total",
			Help:      "Rooms purged after both participants left or on account withdrawal.",
		}),
		gateRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_rejections_total",
			Help:      "Room creations and sends refused by the moderation gate.",
		}),
	}
	m.registry.MustRegister(
		m.hubConnections, m.hubSuperseded, m.pushes, m.messages, m.roomsDeleted, m.gateRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.hubConnections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.hubConnections.Dec()
	}
}

func (m *Metrics) ConnectionSuperseded() {
	if m != nil {
		m.hubSuperseded.Inc()
	}
}

// PushResult records a live push: "delivered", "offline" or "dropped".
func (m *Metrics) PushResult(result string) {
	if m != nil {
		m.pushes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) MessageAppended(kind string) {
	if m != nil {
		m.messages.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) RoomsDeleted(n int) {
	if m != nil && n > 0 {
		m.roomsDeleted.Add(float64(n))
	}
}

func (m *Metrics) GateRejected() {
	if m != nil {
		m.gateRejections.Inc()
	}
}
