package monitoring

import (
	"sync"
	"time"
)

// Monitor collects an in-process snapshot of canteen operations for the
// /stats endpoint. Prometheus collectors in metrics.go cover the scrape
// path; this map covers the human-facing snapshot.
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// IncrMetric adds delta to an integer metric, starting it at zero.
func (m *Monitor) IncrMetric(name string, delta int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	current, _ := m.metrics[name].(int)
	m.metrics[name] = current + delta
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordOrderUpdate records one successful order mutation.
func (m *Monitor) RecordOrderUpdate(status string) {
	m.IncrMetric("orders_updated_total", 1)
	m.IncrMetric("orders_updated_"+status, 1)
	m.RecordMetric("last_order_update", time.Now().Format(time.RFC3339))
}

// RecordSeed records one seeding run and how many records it created.
func (m *Monitor) RecordSeed(date string, created int) {
	m.IncrMetric("seed_runs_total", 1)
	m.IncrMetric("seed_records_created_total", created)
	m.RecordMetric("last_seeded_date", date)
}
