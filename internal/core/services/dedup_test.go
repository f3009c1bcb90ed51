package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

func TestDeduplicate_Empty(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	merged := d.Deduplicate(nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestDeduplicate_MiddleInitialScenario(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())

	merged := d.Deduplicate([]domain.DiscoveredCandidate{
		sighting("John Smith", "SC-House-001", domain.PartyDemocrat, domain.SourceBallotpedia),
		sighting("John H. Smith", "SC-House-001", domain.PartyUnknown, domain.SourceSCDP),
	})

	require.Len(t, merged, 1)
	m := merged[0]
	assert.Equal(t, []string{domain.SourceBallotpedia, domain.SourceSCDP}, m.Sources)
	assert.Equal(t, domain.PartyDemocrat, m.Party)
	assert.Equal(t, domain.SourceBallotpedia, m.PartySource)
	assert.Equal(t, "John Smith", m.Name)
	assert.Len(t, m.SourceRecords, 2)
	assert.Len(t, m.SourceURLs, 2)
}

func TestDeduplicate_PriorityIndependentOfOrder(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	a := sighting("Ann Lee", "SC-Senate-010", domain.PartyDemocrat, domain.SourceSCDP)
	b := sighting("Ann Lee", "SC-Senate-010", domain.PartyRepublican, domain.SourceBallotpedia)

	for _, input := range [][]domain.DiscoveredCandidate{{a, b}, {b, a}} {
		merged := d.Deduplicate(input)
		require.Len(t, merged, 1)
		assert.Equal(t, domain.PartyRepublican, merged[0].Party)
		assert.Equal(t, domain.SourceBallotpedia, merged[0].PartySource)
		assert.Equal(t, domain.SourceBallotpedia, merged[0].SourceRecords[0].Source)
	}
}

func TestDeduplicate_DistrictsNeverMerge(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())

	merged := d.Deduplicate([]domain.DiscoveredCandidate{
		sighting("John Smith", "SC-House-001", domain.PartyDemocrat, domain.SourceBallotpedia),
		sighting("John Smith", "SC-House-002", domain.PartyDemocrat, domain.SourceBallotpedia),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "SC-House-001", merged[0].DistrictID)
	assert.Equal(t, "SC-House-002", merged[1].DistrictID)
}

func TestDeduplicate_CardinalityNeverIncreases(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	input := []domain.DiscoveredCandidate{
		sighting("John Smith", "SC-House-001", domain.PartyDemocrat, domain.SourceBallotpedia),
		sighting("Jon Smith", "SC-House-001", domain.PartyDemocrat, domain.SourceSCDP),
		sighting("Mary Jones", "SC-House-001", domain.PartyRepublican, domain.SourceSCGOP),
		sighting("Ann Lee", "SC-Senate-010", domain.PartyRepublican, domain.SourceSCGOP),
		sighting("Ann Lee", "SC-Senate-010", domain.PartyUnknown, domain.SourceBallotpedia),
		sighting("Bob Brown", "SC-Senate-011", domain.PartyDemocrat, domain.SourceSCDP),
	}

	merged := d.Deduplicate(input)

	in := map[string]int{}
	for _, c := range input {
		in[c.DistrictID]++
	}
	out := map[string]int{}
	for _, m := range merged {
		out[m.DistrictID]++
	}
	for district, n := range out {
		assert.LessOrEqual(t, n, in[district], district)
	}
	assert.Equal(t, 2, out["SC-House-001"])
	assert.Equal(t, 1, out["SC-Senate-010"])
}

func TestDeduplicate_Idempotent(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	first := d.Deduplicate([]domain.DiscoveredCandidate{
		sighting("John Smith", "SC-House-001", domain.PartyDemocrat, domain.SourceBallotpedia),
		sighting("John Smith Jr.", "SC-House-001", domain.PartyDemocrat, domain.SourceSCDP),
		sighting("Mary Jones", "SC-House-001", domain.PartyRepublican, domain.SourceSCGOP),
		sighting("Ann Lee", "SC-Senate-010", domain.PartyRepublican, domain.SourceSCGOP),
	})

	var again []domain.DiscoveredCandidate
	for i := range first {
		again = append(again, first[i].AsSighting())
	}
	second := d.Deduplicate(again)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].DistrictID, second[i].DistrictID)
		assert.Equal(t, first[i].Party, second[i].Party)
	}
}

func TestMerge_Attributes(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	early := testTime.Add(-48 * time.Hour)

	a := sighting("Mary Jones", "SC-House-010", domain.PartyUnknown, domain.SourceBallotpedia)
	a.FilingStatus = domain.FilingDeclared
	b := sighting("Mary Jones", "SC-House-010", domain.PartyRepublican, domain.SourceSCGOP)
	b.PartyConfidence = domain.ConfidenceHigh
	b.FilingStatus = domain.FilingFiled
	b.Incumbent = true
	b.DiscoveredAt = early
	c := sighting("Mary Jones", "SC-House-010", domain.PartyRepublican, "unknown-blog")
	c.FilingStatus = domain.FilingRumored

	m := d.Merge([]domain.DiscoveredCandidate{c, b, a})

	assert.Equal(t, domain.PartyRepublican, m.Party)
	assert.Equal(t, domain.ConfidenceHigh, m.PartyConfidence)
	assert.Equal(t, domain.SourceSCGOP, m.PartySource)
	assert.Equal(t, domain.FilingFiled, m.FilingStatus)
	assert.True(t, m.Incumbent)
	assert.Equal(t, early, m.DiscoveredAt)
	assert.Equal(t, []string{domain.SourceBallotpedia, domain.SourceSCGOP, "unknown-blog"}, m.Sources)
	assert.Equal(t, "unknown-blog", m.SourceRecords[2].Source)
}

func TestMerge_NoPartyKeepsLeadSource(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())

	m := d.Merge([]domain.DiscoveredCandidate{
		sighting("Sam Hill", "SC-House-003", domain.PartyUnknown, domain.SourceSCDP),
		sighting("Sam Hill", "SC-House-003", domain.PartyUnknown, domain.SourceBallotpedia),
	})

	assert.Equal(t, domain.PartyUnknown, m.Party)
	assert.Equal(t, domain.ConfidenceUnknown, m.PartyConfidence)
	assert.Equal(t, domain.SourceBallotpedia, m.PartySource)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())
	input := []domain.DiscoveredCandidate{
		sighting("Ann Lee", "SC-Senate-010", domain.PartyDemocrat, domain.SourceSCDP),
		sighting("Ann Lee", "SC-Senate-010", domain.PartyRepublican, domain.SourceBallotpedia),
	}

	d.Merge(input)

	assert.Equal(t, domain.SourceSCDP, input[0].Source)
	assert.Equal(t, domain.SourceBallotpedia, input[1].Source)
}

func TestDeduplicator_Priority(t *testing.T) {
	d := NewDeduplicator(0.85, testPriorities())

	assert.Equal(t, 0, d.Priority(domain.SourceManual))
	assert.Equal(t, 2, d.Priority(domain.SourceBallotpedia))
	assert.Equal(t, domain.UnrankedPriority, d.Priority("somewhere"))
}
