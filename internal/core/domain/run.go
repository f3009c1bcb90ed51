package domain

import "time"

// RunStatus is the outcome of a discovery run.
type RunStatus string

// Run outcomes.
const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// DiscoveryRun is the persisted history entry of one discovery run.
type DiscoveryRun struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Status      RunStatus

	// Trigger is "manual", "scheduled" or "mcp".
	Trigger string

	TotalRaw          int
	TotalDeduplicated int
	ConflictCount     int
	Coverage          float64
	SourceStats       map[string]int
	SourceErrors      map[string]string

	// Sync is nil when the run did not persist candidates.
	Sync *SyncSummary

	// Error holds a fatal error, if any.
	Error string
}

// Duration returns how long the run took.
func (r *DiscoveryRun) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// StatusFor derives a run status from an aggregation result.
func StatusFor(result *AggregationResult) RunStatus {
	if result == nil {
		return RunStatusFailed
	}
	failed := len(result.FailedSources())
	switch {
	case failed == 0:
		return RunStatusCompleted
	case failed == len(result.SourceResults):
		return RunStatusFailed
	default:
		return RunStatusPartial
	}
}
