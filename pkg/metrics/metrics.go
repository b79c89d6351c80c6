// Package metrics provides metrics implementations for RAGEval
package metrics

import (
	"sync"

	"github.com/ragstack/rageval/pkg/interfaces"
)

// NoOpMetrics is a no-operation metrics implementation
type NoOpMetrics struct{}

// Counter increments a counter metric
func (m *NoOpMetrics) Counter(name string, value float64, labels map[string]string) {}

// Gauge sets a gauge metric
func (m *NoOpMetrics) Gauge(name string, value float64, labels map[string]string) {}

// Histogram records a histogram metric
func (m *NoOpMetrics) Histogram(name string, value float64, labels map[string]string) {}

// Timer records timing metrics
func (m *NoOpMetrics) Timer(name string, duration float64, labels map[string]string) {}

// InMemoryMetrics accumulates metric values in memory. Used by the CLI
// summary output and by tests asserting on recorded counters.
type InMemoryMetrics struct {
	mu       sync.Mutex
	counters map[string]float64
	gauges   map[string]float64
}

// NewInMemoryMetrics creates an in-memory metrics collector
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]float64),
		gauges:   make(map[string]float64),
	}
}

// Counter increments a counter metric
func (m *InMemoryMetrics) Counter(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
}

// Gauge sets a gauge metric
func (m *InMemoryMetrics) Gauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// Histogram records a histogram metric
func (m *InMemoryMetrics) Histogram(name string, value float64, labels map[string]string) {
	m.Gauge(name, value, labels)
}

// Timer records timing metrics
func (m *InMemoryMetrics) Timer(name string, duration float64, labels map[string]string) {
	m.Gauge(name, duration, labels)
}

// CounterValue returns the accumulated value of a counter
func (m *InMemoryMetrics) CounterValue(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// GaugeValue returns the last recorded value of a gauge
func (m *InMemoryMetrics) GaugeValue(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}

var _ interfaces.Metrics = (*NoOpMetrics)(nil)
var _ interfaces.Metrics = (*InMemoryMetrics)(nil)

// NewNoOpMetrics creates a new no-op metrics implementation
func NewNoOpMetrics() interfaces.Metrics {
	return &NoOpMetrics{}
}

// NewTestMetrics creates a metrics implementation for testing
func NewTestMetrics() interfaces.Metrics {
	return &NoOpMetrics{}
}
