package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opCreated = "created"
	opUpdated = "updated"
	opDeleted = "deleted"

	stageValidation = "validation"
	stageGuard      = "guard"
	stageExecution  = "execution"
)

var (
	// syncApplied counts option rows touched by committed bulk syncs.
	syncApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pathway_option_sync_operations_total",
		Help: "Option operations applied by committed bulk syncs, by kind",
	}, []string{"operation"})

	// syncRejected counts syncs that never committed, by the stage
	// that stopped them.
	syncRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pathway_option_sync_rejected_total",
		Help: "Bulk option syncs rejected or failed, by stage",
	}, []string{"stage"})
)
