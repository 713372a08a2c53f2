package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcilerCustomersScanned counts customers inspected by the subscription reconciler.
	ReconcilerCustomersScanned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "reconciler",
		Name:      "customers_scanned_total",
		Help:      "Customers inspected by the subscription reconciler.",
	})

	// ReconcilerDuplicatesFound counts live subscriptions beyond the keeper.
	ReconcilerDuplicatesFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "reconciler",
		Name:      "duplicates_found_total",
		Help:      "Duplicate live subscriptions found.",
	})

	// ReconcilerCancellations counts cancel attempts by outcome (canceled/failed).
	ReconcilerCancellations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "reconciler",
		Name:      "cancellations_total",
		Help:      "Duplicate subscription cancellations by outcome.",
	}, []string{"outcome"})

	// WorkQueueRuns counts work-queue runs by queue and result (dispatched/empty/error).
	WorkQueueRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "workqueue",
		Name:      "runs_total",
		Help:      "Work queue runs by queue and result.",
	}, []string{"queue", "result"})

	// WorkQueueClaimed counts rows moved to processing.
	WorkQueueClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "workqueue",
		Name:      "rows_claimed_total",
		Help:      "Rows claimed by work queue runs.",
	}, []string{"queue"})

	// WorkQueueDispatches counts worker invocations by queue and outcome (ok/failed).
	WorkQueueDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "workqueue",
		Name:      "dispatches_total",
		Help:      "Worker invocations by queue and outcome.",
	}, []string{"queue", "outcome"})

	// WorkQueueRejected counts rows failed before dispatch.
	WorkQueueRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "workqueue",
		Name:      "rows_rejected_total",
		Help:      "Rows moved to a terminal error status before dispatch.",
	}, []string{"queue"})

	// JobQueueJobs counts background jobs by type and outcome (completed/retried/failed).
	JobQueueJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkfox",
		Subsystem: "jobqueue",
		Name:      "jobs_total",
		Help:      "Background jobs by type and outcome.",
	}, []string{"type", "outcome"})
)
