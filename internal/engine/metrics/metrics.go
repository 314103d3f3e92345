package metrics

import (
	"time"
)

// TrackDBOperation returns a closure that records the operation's duration
// and status once called with the final error.
func TrackDBOperation(operation, table string) func(error) {
	startTime := time.Now()
	return func(err error) {
		duration := time.Since(startTime).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		DatabaseOperationsTotal.WithLabelValues(operation, table, status).Inc()
		DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
	}
}

// TrackVerification records one strategy outcome
func TrackVerification(taskType string, code string, duration time.Duration) {
	if code == "" {
		code = "OK"
	}
	VerificationsTotal.WithLabelValues(taskType, code).Inc()
	VerificationDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}

// TrackAttestation records one attestation gate outcome
func TrackAttestation(outcome string) {
	AttestationsTotal.WithLabelValues(outcome).Inc()
}
