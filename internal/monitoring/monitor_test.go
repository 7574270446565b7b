package monitoring

import (
	"testing"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordOrderUpdate(t *testing.T) {
	m := NewMonitor()

	m.RecordOrderUpdate("yes")
	m.RecordOrderUpdate("yes")
	m.RecordOrderUpdate("no")

	metrics := m.GetMetrics()

	if metrics["orders_updated_total"] != 3 {
		t.Errorf("Expected 'orders_updated_total' to be 3, but got %v", metrics["orders_updated_total"])
	}
	if metrics["orders_updated_yes"] != 2 {
		t.Errorf("Expected 'orders_updated_yes' to be 2, but got %v", metrics["orders_updated_yes"])
	}
	if _, exists := metrics["last_order_update"]; !exists {
		t.Errorf("Expected 'last_order_update' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordSeed(t *testing.T) {
	m := NewMonitor()

	m.RecordSeed("2024-03-13", 12)
	m.RecordSeed("2024-03-13", 0)

	metrics := m.GetMetrics()

	if metrics["seed_runs_total"] != 2 {
		t.Errorf("Expected 'seed_runs_total' to be 2, but got %v", metrics["seed_runs_total"])
	}
	if metrics["seed_records_created_total"] != 12 {
		t.Errorf("Expected 'seed_records_created_total' to be 12, but got %v", metrics["seed_records_created_total"])
	}
	if metrics["last_seeded_date"] != "2024-03-13" {
		t.Errorf("Expected 'last_seeded_date' to be 2024-03-13, but got %v", metrics["last_seeded_date"])
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 1)
	m.Reset()

	if _, exists := m.GetMetric("test_metric"); exists {
		t.Errorf("Expected metrics to be empty after Reset, but 'test_metric' was present")
	}
}
