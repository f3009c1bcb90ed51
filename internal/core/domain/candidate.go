package domain

import (
	"sort"
	"strings"
	"time"
)

// DiscoveredCandidate is one sighting of a candidate from one source.
// Sightings are produced fresh on every run and never persisted.
type DiscoveredCandidate struct {
	// Name is the raw display name as the source printed it.
	Name string

	// DistrictID is the canonical district identifier, e.g. "SC-House-042".
	DistrictID string

	// Party is the stated affiliation, PartyUnknown if none.
	Party Party

	// PartyConfidence is how much the source is trusted for Party.
	PartyConfidence PartyConfidence

	// Source identifies the adapter that produced the sighting.
	Source string

	// SourceURL is the page the sighting was extracted from.
	SourceURL string

	// FilingStatus is the candidacy status, FilingUnknown if none.
	FilingStatus FilingStatus

	// DiscoveredAt is when the sighting was extracted.
	DiscoveredAt time.Time

	// Incumbent is true if the source marks the candidate as incumbent.
	Incumbent bool

	// Extra holds source-specific fields.
	Extra map[string]string
}

// MergedCandidate is the reconciled view of one person in one district.
type MergedCandidate struct {
	// Name comes from the most authoritative sighting.
	Name string

	// DistrictID is the canonical district identifier.
	DistrictID string

	// Party is the winning affiliation.
	Party Party

	// PartyConfidence is the confidence of the winning affiliation.
	PartyConfidence PartyConfidence

	// PartySource is the source whose sighting supplied Party.
	PartySource string

	// Sources is the sorted set of contributing sources.
	Sources []string

	// SourceURLs maps each source to its evidence URL.
	SourceURLs map[string]string

	// FilingStatus is the most advanced status across sightings.
	FilingStatus FilingStatus

	// Incumbent is true if any sighting asserts it.
	Incumbent bool

	// DiscoveredAt is the earliest sighting time.
	DiscoveredAt time.Time

	// SourceRecords are the merged sightings in priority order.
	SourceRecords []DiscoveredCandidate
}

// HasSource returns true if the source contributed to the candidate.
func (m *MergedCandidate) HasSource(source string) bool {
	for _, s := range m.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// AsSighting collapses the merged candidate back into a single sighting
// attributed to its party source.
func (m *MergedCandidate) AsSighting() DiscoveredCandidate {
	source := m.PartySource
	if source == "" && len(m.SourceRecords) > 0 {
		source = m.SourceRecords[0].Source
	}
	return DiscoveredCandidate{
		Name:            m.Name,
		DistrictID:      m.DistrictID,
		Party:           m.Party,
		PartyConfidence: m.PartyConfidence,
		Source:          source,
		SourceURL:       m.SourceURLs[source],
		FilingStatus:    m.FilingStatus,
		DiscoveredAt:    m.DiscoveredAt,
		Incumbent:       m.Incumbent,
	}
}

// ConflictType names the attribute two sources disagreed on.
type ConflictType string

// Conflict types.
const (
	// ConflictParty is a party affiliation disagreement.
	ConflictParty ConflictType = "party"
)

// ConflictRecord is a disagreement the merge resolved but a human should review.
type ConflictRecord struct {
	// CandidateName is the merged candidate's name.
	CandidateName string

	// DistrictID is the merged candidate's district.
	DistrictID string

	// ConflictType is the attribute in dispute.
	ConflictType ConflictType

	// CandidateValues is the sorted set of differing values observed.
	CandidateValues []string

	// ResolvedValue is the value the merge kept.
	ResolvedValue string

	// ResolvedBySource is the source that supplied ResolvedValue.
	ResolvedBySource string
}

// SourceResult is the outcome of one adapter during a run.
type SourceResult struct {
	// Source is the adapter name.
	Source string

	// Candidates are the sightings the adapter produced.
	Candidates []DiscoveredCandidate

	// Success is false if the adapter failed as a whole.
	Success bool

	// Error describes the failure when Success is false.
	Error string

	// Duration is how long the adapter ran.
	Duration time.Duration
}

// AggregationResult is the output of one aggregation run.
type AggregationResult struct {
	// Candidates are the deduplicated candidates.
	Candidates []MergedCandidate

	// SourceStats counts raw sightings per source, zero for failed sources.
	SourceStats map[string]int

	// SourceResults holds per-adapter outcomes, in adapter order.
	SourceResults []SourceResult

	// Conflicts are disagreements surfaced for review.
	Conflicts []ConflictRecord

	// TotalRaw is the number of sightings before deduplication.
	TotalRaw int

	// TotalDeduplicated is the number of merged candidates.
	TotalDeduplicated int

	// StartedAt is when the run started.
	StartedAt time.Time

	// CompletedAt is when the run finished.
	CompletedAt time.Time
}

// FailedSources returns the names of sources that failed as a whole.
func (r *AggregationResult) FailedSources() []string {
	var failed []string
	for _, sr := range r.SourceResults {
		if !sr.Success {
			failed = append(failed, sr.Source)
		}
	}
	return failed
}

// SourceErrors maps failed sources to their error text.
func (r *AggregationResult) SourceErrors() map[string]string {
	errs := make(map[string]string)
	for _, sr := range r.SourceResults {
		if !sr.Success {
			errs[sr.Source] = sr.Error
		}
	}
	return errs
}

// CandidatesInDistrict returns the merged candidates for one district.
func (r *AggregationResult) CandidatesInDistrict(districtID string) []MergedCandidate {
	var out []MergedCandidate
	for i := range r.Candidates {
		if r.Candidates[i].DistrictID == districtID {
			out = append(out, r.Candidates[i])
		}
	}
	return out
}

// SortCandidates orders merged candidates by district then name.
func SortCandidates(candidates []MergedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistrictID != candidates[j].DistrictID {
			return candidates[i].DistrictID < candidates[j].DistrictID
		}
		return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
	})
}
