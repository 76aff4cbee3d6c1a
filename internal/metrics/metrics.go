// Package metrics exports transmitter counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zereker/flashtx"
)

// Collector counts sessions, bits and actuator failures for one transmitter.
type Collector struct {
	registry *prometheus.Registry

	sessions       *prometheus.CounterVec
	bits           *prometheus.CounterVec
	actuatorErrors prometheus.Counter
	active         prometheus.Gauge
}

// New returns a collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flashtx",
				Subsystem: "transmitter",
				Name:      "sessions_total",
				Help:      "Finished transmissions by outcome.",
			},
			[]string{"outcome"},
		),
		bits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flashtx",
				Subsystem: "transmitter",
				Name:      "bits_total",
				Help:      "Bits handed to the actuator.",
			},
			[]string{"bit"},
		),
		actuatorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashtx",
			Subsystem: "actuator",
			Name:      "errors_total",
			Help:      "Failed actuator state changes.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flashtx",
			Subsystem: "transmitter",
			Name:      "active",
			Help:      "1 while a transmission is running.",
		}),
	}

	c.registry.MustRegister(c.sessions, c.bits, c.actuatorErrors, c.active)
	return c
}

// Options returns the transmitter hooks feeding the collector.
func (c *Collector) Options() []flashtx.Option {
	return []flashtx.Option{
		flashtx.OnSlotOption(func(index int, bit flashtx.Bit) {
			if index == 0 {
				c.active.Set(1)
			}
			c.bits.WithLabelValues(bit.String()).Inc()
		}),
		flashtx.OnActuatorErrorOption(func(*flashtx.ActuatorError) {
			c.actuatorErrors.Inc()
		}),
		flashtx.OnFinishOption(func(s *flashtx.Session) {
			c.active.Set(0)
			c.sessions.WithLabelValues(s.State().String()).Inc()
		}),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
