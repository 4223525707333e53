package data

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PublisherCollector exposes the event publisher state to Prometheus. Values
// are read from the publisher at scrape time.
type PublisherCollector struct {
	dropped prometheus.CounterFunc
	open    prometheus.GaugeFunc
}

// NewPublisherCollector creates a collector reading from p.
func NewPublisherCollector(p Publisher) *PublisherCollector {
	return &PublisherCollector{
		dropped: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "zevaro_event_gateway_dropped_events_total",
				Help: "Total number of events dropped because the broker circuit was open or publishing is disabled.",
			},
			func() float64 { return float64(p.DroppedEventCount()) },
		),
		open: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "zevaro_event_gateway_circuit_open",
				Help: "1 while the broker circuit is open, 0 otherwise.",
			},
			func() float64 {
				if p.IsOpen() {
					return 1
				}
				return 0
			},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PublisherCollector) Describe(ch chan<- *prometheus.Desc) {
	c.dropped.Describe(ch)
	c.open.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *PublisherCollector) Collect(ch chan<- prometheus.Metric) {
	c.dropped.Collect(ch)
	c.open.Collect(ch)
}

// NewMetricsRegistry creates the registry served on /metrics.
func NewMetricsRegistry(pc *PublisherCollector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		pc,
	)
	return reg
}
