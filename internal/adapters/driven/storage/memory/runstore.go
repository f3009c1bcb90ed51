package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.DiscoveryRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.DiscoveryRun),
	}
}

// SaveRun creates or replaces a run by ID.
func (s *RunStore) SaveRun(_ context.Context, run *domain.DiscoveryRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// LatestRun returns the most recently started run, or nil.
func (s *RunStore) LatestRun(ctx context.Context) (*domain.DiscoveryRun, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// ListRuns returns recent runs, most recent first.
// A non-positive limit returns every run.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.DiscoveryRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DiscoveryRun, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
