package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// Ensure CandidateStore implements the interface.
var _ driven.CandidateStore = (*CandidateStore)(nil)

// CandidateStore is an in-memory implementation of driven.CandidateStore.
type CandidateStore struct {
	mu         sync.RWMutex
	candidates map[domain.CandidateKey]*domain.StoredCandidate
}

// NewCandidateStore creates a new in-memory candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: make(map[domain.CandidateKey]*domain.StoredCandidate),
	}
}

// ReadCurrentState returns copies of every stored candidate.
func (s *CandidateStore) ReadCurrentState(_ context.Context) (map[domain.CandidateKey]*domain.StoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.CandidateKey]*domain.StoredCandidate, len(s.candidates))
	for k, c := range s.candidates {
		out[k] = cloneCandidate(c)
	}
	return out, nil
}

// Upsert creates or replaces candidates by key. An existing record keeps
// its lock flag; only SetLocked changes it.
func (s *CandidateStore) Upsert(_ context.Context, candidates []*domain.StoredCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range candidates {
		if c == nil {
			continue
		}
		next := cloneCandidate(c)
		if prev, ok := s.candidates[c.Key()]; ok {
			next.Locked = prev.Locked
		}
		s.candidates[c.Key()] = next
	}
	return nil
}

// List returns stored candidates sorted by district then name.
func (s *CandidateStore) List(_ context.Context, districtID string) ([]*domain.StoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.StoredCandidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if districtID != "" && c.DistrictID != districtID {
			continue
		}
		out = append(out, cloneCandidate(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistrictID != out[j].DistrictID {
			return out[i].DistrictID < out[j].DistrictID
		}
		return out[i].Key().Name < out[j].Key().Name
	})
	return out, nil
}

// SetLocked locks or unlocks a candidate.
func (s *CandidateStore) SetLocked(_ context.Context, key domain.CandidateKey, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[key]
	if !ok {
		return domain.ErrNotFound
	}
	c.Locked = locked
	return nil
}

func cloneCandidate(c *domain.StoredCandidate) *domain.StoredCandidate {
	cp := *c
	cp.Sources = append([]string(nil), c.Sources...)
	cp.SourceURLs = make(map[string]string, len(c.SourceURLs))
	for k, v := range c.SourceURLs {
		cp.SourceURLs[k] = v
	}
	return &cp
}
