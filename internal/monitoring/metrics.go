package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors, scraped from the dedicated metrics port.
var (
	OrdersUpdated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canteen_orders_updated_total",
		Help: "Successful order mutations, by resulting status.",
	}, []string{"status"})

	SeedRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canteen_seed_runs_total",
		Help: "Daily seed operations executed.",
	})

	SeedRecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canteen_seed_records_created_total",
		Help: "Order records created by seeding.",
	})

	MealsPlanned = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "canteen_meals_planned",
		Help: "Meals to cook for today per the latest dashboard computation.",
	}, []string{"kind"})

	RejectedUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canteen_rejected_updates_total",
		Help: "Order mutations rejected before any store change, by reason.",
	}, []string{"reason"})
)
