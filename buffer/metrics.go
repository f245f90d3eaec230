package buffer

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "godeque"
	metricsSubsystem = "buffer"
)

type bufferMetrics struct {
	registerer prometheus.Registerer
	collectors []prometheus.Collector

	writes prometheus.Counter
	reads  prometheus.Counter
	peeks  prometheus.Counter
	drops  prometheus.Counter

	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge
}

func newCounter(component string, name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   metricsSubsystem,
		Name:        name,
		ConstLabels: prometheus.Labels{"component": component},
		Help:        help,
	})
}

func newGauge(component string, name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Subsystem:   metricsSubsystem,
		Name:        name,
		ConstLabels: prometheus.Labels{"component": component},
		Help:        help,
	})
}

func newBufferMetrics(registerer prometheus.Registerer, component string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		registerer:  registerer,
		writes:      newCounter(component, "writes_total", "Total number of buffer write operations"),
		reads:       newCounter(component, "reads_total", "Total number of buffer read operations"),
		peeks:       newCounter(component, "peeks_total", "Total number of buffer peek operations"),
		drops:       newCounter(component, "drops_total", "Total number of elements evicted by a full fixed store"),
		size:        newGauge(component, "size", "Current number of elements in the buffer"),
		capacity:    newGauge(component, "capacity", "Current capacity of the backing store"),
		utilization: newGauge(component, "utilization", "Buffer utilization between 0 and 1"),
	}
	m.collectors = []prometheus.Collector{m.writes, m.reads, m.peeks, m.drops, m.size, m.capacity, m.utilization}
	for i, collector := range m.collectors {
		if err := registerer.Register(collector); err != nil {
			for _, registered := range m.collectors[:i] {
				registerer.Unregister(registered)
			}
			return nil, errors.Join(ErrInitBuffer, err)
		}
	}
	return m, nil
}

func (m *bufferMetrics) recordWrite(size int, capacity int) {
	m.writes.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordRead(size int, capacity int) {
	m.reads.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordPeek() {
	m.peeks.Inc()
}

func (m *bufferMetrics) recordDrop() {
	m.drops.Inc()
}

func (m *bufferMetrics) updateSize(size int, capacity int) {
	m.size.Set(float64(size))
	m.capacity.Set(float64(capacity))
	if capacity > 0 {
		m.utilization.Set(float64(size) / float64(capacity))
	}
}

func (m *bufferMetrics) unregister() {
	for _, collector := range m.collectors {
		m.registerer.Unregister(collector)
	}
}
