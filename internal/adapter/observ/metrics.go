package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// POS business counters, scraped alongside the HTTP metrics.
var (
	SalesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_completed_total",
		Help: "Sales that reached the completed state",
	})

	SalesPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_persist_failures_total",
		Help: "Completed sales the worker pool failed to persist",
	})

	PaymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_payment_outcomes_total",
		Help: "Payment submissions by outcome",
	}, []string{"outcome"})
)
