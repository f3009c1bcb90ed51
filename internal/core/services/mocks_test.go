package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// mockAdapter implements driven.SourceAdapter for testing.
type mockAdapter struct {
	name       string
	priority   int
	candidates []domain.DiscoveredCandidate
	err        error
	panicWith  any
	delay      time.Duration
	calls      atomic.Int32
}

var _ driven.SourceAdapter = (*mockAdapter)(nil)

func (m *mockAdapter) Name() string  { return m.name }
func (m *mockAdapter) Priority() int { return m.priority }

func (m *mockAdapter) DiscoverCandidates(ctx context.Context, _ []domain.Scope) ([]domain.DiscoveredCandidate, error) {
	m.calls.Add(1)
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockAdapter) ExtractForScope(ctx context.Context, districtID string) ([]domain.DiscoveredCandidate, error) {
	all, err := m.DiscoverCandidates(ctx, nil)
	if err != nil {
		return nil, err
	}
	var out []domain.DiscoveredCandidate
	for _, c := range all {
		if c.DistrictID == districtID {
			out = append(out, c)
		}
	}
	return out, nil
}

var testTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func sighting(name, district string, party domain.Party, source string) domain.DiscoveredCandidate {
	return domain.DiscoveredCandidate{
		Name:            name,
		DistrictID:      district,
		Party:           party,
		PartyConfidence: domain.ConfidenceMedium,
		Source:          source,
		SourceURL:       "https://" + source + ".example/" + district,
		DiscoveredAt:    testTime,
	}
}

func testPriorities() map[string]int {
	return map[string]int{
		domain.SourceBallotpedia: 2,
		domain.SourceSCDP:        3,
		domain.SourceSCGOP:       3,
	}
}

func testSettings() domain.DiscoverySettings {
	return domain.DiscoverySettings{
		Enabled:             true,
		Frequency:           domain.FrequencyWeekly,
		State:               "SC",
		EnabledSources:      domain.DefaultSourceOrder(),
		SimilarityThreshold: domain.DefaultSimilarityThreshold,
		RequestsPerMinute:   domain.DefaultRequestsPerMinute,
		ElectionYear:        2026,
		Bounds:              domain.DefaultChamberBounds(),
		Sources:             domain.DefaultSources(2026),
	}
}
