package driven

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// CandidateStore persists reconciled candidates.
type CandidateStore interface {
	// ReadCurrentState returns every stored candidate keyed by name and district.
	ReadCurrentState(ctx context.Context) (map[domain.CandidateKey]*domain.StoredCandidate, error)

	// Upsert creates or replaces candidates by key. The lock flag is written
	// on insert only; an existing record keeps its own.
	Upsert(ctx context.Context, candidates []*domain.StoredCandidate) error

	// List returns stored candidates, optionally filtered to one district.
	// An empty districtID lists all. Results are sorted by district then name.
	List(ctx context.Context, districtID string) ([]*domain.StoredCandidate, error)

	// SetLocked locks or unlocks a candidate.
	// Returns domain.ErrNotFound if no candidate has the key.
	SetLocked(ctx context.Context, key domain.CandidateKey, locked bool) error
}

// RunStore persists discovery run history.
type RunStore interface {
	// SaveRun creates or replaces a run by ID.
	SaveRun(ctx context.Context, run *domain.DiscoveryRun) error

	// LatestRun returns the most recently started run.
	// Returns nil and no error if no run exists.
	LatestRun(ctx context.Context) (*domain.DiscoveryRun, error)

	// ListRuns returns recent runs, most recent first.
	ListRuns(ctx context.Context, limit int) ([]domain.DiscoveryRun, error)
}
