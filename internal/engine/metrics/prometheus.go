package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts strategy outcomes by task type and code.
	// Successful verifications carry code "OK".
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questforge",
		Name:      "verifications_total",
		Help:      "Verification strategy outcomes by task type and result code",
	}, []string{"task_type", "code"})

	VerificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "questforge",
		Name:      "verification_duration_seconds",
		Help:      "Time spent in verification strategies",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task_type"})

	ReplayRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "questforge",
		Name:      "replay_rejections_total",
		Help:      "Completion attempts rejected because the transaction hash was already used",
	})

	AttestationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questforge",
		Name:      "attestations_total",
		Help:      "Attestation gate outcomes",
	}, []string{"outcome"})

	DatabaseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questforge",
		Name:      "database_operations_total",
		Help:      "Database operations by operation, table and status",
	}, []string{"operation", "table", "status"})

	DatabaseOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "questforge",
		Name:      "database_operation_duration_seconds",
		Help:      "Database operation latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "table"})
)
