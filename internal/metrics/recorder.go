package metrics

import "time"

// ResultLabel enumerates operation outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess    ResultLabel = "success"
	ResultValidation ResultLabel = "validation"
	ResultConflict   ResultLabel = "conflict"
	ResultFailed     ResultLabel = "failed"
	ResultDeclined   ResultLabel = "declined"
)

// Recorder defines observability hooks for record-service traffic and
// coordinator operations. Implementations must tolerate concurrent calls.
type Recorder interface {
	ObserveRequestDuration(operation string, d time.Duration, success bool)
	IncOperationResult(operation string, result ResultLabel)
	SetRosterSize(n int)
	SetRefreshInFlight(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequestDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncOperationResult(string, ResultLabel)             {}
func (NoopRecorder) SetRosterSize(int)                                  {}
func (NoopRecorder) SetRefreshInFlight(int)                             {}
