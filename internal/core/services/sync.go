package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

// Ensure CandidateSync implements the interface.
var _ driving.CandidateSync = (*CandidateSync)(nil)

// CandidateSync persists merged candidates, honouring locked records.
type CandidateSync struct {
	store driven.CandidateStore
	dedup *Deduplicator
	now   func() time.Time
}

// NewCandidateSync creates a sync service. The deduplicator supplies
// source priorities and the fuzzy name matcher.
func NewCandidateSync(store driven.CandidateStore, dedup *Deduplicator) *CandidateSync {
	return &CandidateSync{
		store: store,
		dedup: dedup,
		now:   time.Now,
	}
}

// Sync matches incoming candidates to stored ones by exact key, then by
// fuzzy name within the district, and writes the result back.
func (s *CandidateSync) Sync(ctx context.Context, candidates []domain.MergedCandidate) (*domain.SyncSummary, error) {
	state, err := s.store.ReadCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("read current state: %w", err)
	}

	byDistrict := make(map[string][]*domain.StoredCandidate)
	for _, c := range state {
		byDistrict[c.DistrictID] = append(byDistrict[c.DistrictID], c)
	}
	for _, list := range byDistrict {
		sort.Slice(list, func(i, j int) bool { return list[i].Key().Name < list[j].Key().Name })
	}

	now := s.now()
	summary := &domain.SyncSummary{}
	touched := make(map[domain.CandidateKey]*domain.StoredCandidate)

	for i := range candidates {
		m := &candidates[i]
		existing := state[domain.KeyOf(m.Name, m.DistrictID)]
		if existing == nil {
			existing = s.fuzzyFind(byDistrict[m.DistrictID], m.Name)
		}

		if existing == nil {
			created := newStoredCandidate(m, now)
			state[created.Key()] = created
			byDistrict[created.DistrictID] = append(byDistrict[created.DistrictID], created)
			touched[created.Key()] = created
			summary.Created++
			continue
		}

		changed, protected := s.apply(existing, m)
		existing.LastSeen = now
		touched[existing.Key()] = existing
		if protected {
			summary.Locked++
		}
		if changed {
			summary.Updated++
		} else {
			summary.Unchanged++
		}
	}

	out := make([]*domain.StoredCandidate, 0, len(touched))
	for _, c := range touched {
		out = append(out, c)
	}
	if err := s.store.Upsert(ctx, out); err != nil {
		return nil, fmt.Errorf("upsert candidates: %w", err)
	}

	logger.Info("sync: %d created, %d updated, %d unchanged, %d locked",
		summary.Created, summary.Updated, summary.Unchanged, summary.Locked)
	return summary, nil
}

func (s *CandidateSync) fuzzyFind(stored []*domain.StoredCandidate, name string) *domain.StoredCandidate {
	for _, c := range stored {
		if s.dedup.Matcher().Match(c.Name, name) {
			return c
		}
	}
	return nil
}

// apply folds an incoming candidate into a stored one. It reports whether
// anything changed and whether a lock rejected a party change.
func (s *CandidateSync) apply(existing *domain.StoredCandidate, m *domain.MergedCandidate) (changed, protected bool) {
	if m.Party.IsKnown() && m.Party != existing.Party {
		if !existing.Locked || s.dedup.Priority(m.PartySource) < s.dedup.Priority(existing.PartySource) {
			existing.Party = m.Party
			existing.PartyConfidence = m.PartyConfidence
			existing.PartySource = m.PartySource
			changed = true
		} else {
			protected = true
		}
	}

	if status := domain.MostAdvanced(existing.FilingStatus, m.FilingStatus); status != existing.FilingStatus {
		existing.FilingStatus = status
		changed = true
	}
	if !existing.Locked && m.Incumbent != existing.Incumbent {
		existing.Incumbent = m.Incumbent
		changed = true
	}

	if existing.SourceURLs == nil {
		existing.SourceURLs = make(map[string]string)
	}
	for _, src := range m.Sources {
		if !containsString(existing.Sources, src) {
			existing.Sources = append(existing.Sources, src)
			changed = true
		}
	}
	sort.Strings(existing.Sources)
	for src, url := range m.SourceURLs {
		if _, ok := existing.SourceURLs[src]; !ok {
			existing.SourceURLs[src] = url
			changed = true
		}
	}
	return changed, protected
}

func newStoredCandidate(m *domain.MergedCandidate, now time.Time) *domain.StoredCandidate {
	urls := make(map[string]string, len(m.SourceURLs))
	for k, v := range m.SourceURLs {
		urls[k] = v
	}
	firstSeen := m.DiscoveredAt
	if firstSeen.IsZero() {
		firstSeen = now
	}
	return &domain.StoredCandidate{
		Name:            m.Name,
		DistrictID:      m.DistrictID,
		Party:           m.Party,
		PartyConfidence: m.PartyConfidence,
		PartySource:     m.PartySource,
		Sources:         append([]string(nil), m.Sources...),
		SourceURLs:      urls,
		FilingStatus:    m.FilingStatus,
		Incumbent:       m.Incumbent,
		FirstSeen:       firstSeen,
		LastSeen:        now,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
