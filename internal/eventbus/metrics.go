package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindInternal = "internal"
	kindExternal = "external"

	resultEmitted    = "emitted"
	resultSuppressed = "suppressed"
)

// Metrics counts bus activity. A nil *Metrics records nothing.
type Metrics struct {
	dispatchTotal     *prometheus.CounterVec
	listenerCalls     *prometheus.CounterVec
	hostNotifications *prometheus.CounterVec
}

// NewMetrics creates the bus collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventbridge",
				Subsystem: "bus",
				Name:      "dispatch_total",
				Help:      "Total number of dispatched events",
			},
			[]string{"event"},
		),
		listenerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventbridge",
				Subsystem: "bus",
				Name:      "listener_calls_total",
				Help:      "Total number of listener invocations by priority group",
			},
			[]string{"kind"},
		),
		hostNotifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventbridge",
				Subsystem: "bus",
				Name:      "host_notifications_total",
				Help:      "Host bridge outcomes per dispatch",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.dispatchTotal, m.listenerCalls, m.hostNotifications)
	}
	return m
}

func (m *Metrics) dispatched(event string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) called(kind string) {
	if m == nil {
		return
	}
	m.listenerCalls.WithLabelValues(kind).Inc()
}

func (m *Metrics) bridged(result string) {
	if m == nil {
		return
	}
	m.hostNotifications.WithLabelValues(result).Inc()
}
