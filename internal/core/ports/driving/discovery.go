package driving

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// RunOptions controls a discovery run.
type RunOptions struct {
	// Sync persists the merged candidates after aggregation.
	Sync bool

	// Force runs even when discovery is disabled in settings.
	Force bool

	// Trigger records what started the run, e.g. "manual" or "scheduled".
	Trigger string
}

// RunOutcome is everything a discovery run produced.
type RunOutcome struct {
	Run    *domain.DiscoveryRun
	Result *domain.AggregationResult
	Report *domain.CoverageReport

	// Sync is nil when the run did not persist candidates.
	Sync *domain.SyncSummary
}

// DiscoveryService runs the full discovery pipeline.
type DiscoveryService interface {
	// Run aggregates, optionally syncs, reports and records one run.
	// Returns domain.ErrDiscoveryDisabled when discovery is off and not
	// forced, and domain.ErrRunInProgress when another run holds the lock.
	Run(ctx context.Context, opts RunOptions) (*RunOutcome, error)

	// ProbeDistrict aggregates a single district without persisting anything.
	ProbeDistrict(ctx context.Context, districtID string) (*domain.AggregationResult, error)

	// Candidates lists stored candidates, optionally for one district.
	Candidates(ctx context.Context, districtID string) ([]*domain.StoredCandidate, error)

	// SetLocked locks or unlocks a stored candidate.
	SetLocked(ctx context.Context, name, districtID string, locked bool) error

	// Runs lists recent runs, most recent first.
	Runs(ctx context.Context, limit int) ([]domain.DiscoveryRun, error)
}
