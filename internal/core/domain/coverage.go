package domain

import "time"

// UnknownPartyLabel is the ByParty key for candidates with no known party.
const UnknownPartyLabel = "Unknown"

// CoverageReport summarises one run for human review.
type CoverageReport struct {
	// State is the state the report covers.
	State string

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time

	// TotalDistricts is the size of the enumerated district space.
	TotalDistricts int

	// DistrictsWithCandidates counts districts that have at least one candidate.
	DistrictsWithCandidates int

	// DistrictsWithoutCandidates lists empty districts in enumeration order.
	DistrictsWithoutCandidates []string

	// TotalCandidates is the number of merged candidates.
	TotalCandidates int

	// ByParty counts candidates per party label.
	ByParty map[string]int

	// BySource counts raw sightings per source.
	BySource map[string]int

	// ConflictCount is the number of conflicts surfaced.
	ConflictCount int

	// Conflicts are the surfaced conflicts.
	Conflicts []ConflictRecord

	// NewCandidates is set when a sync ran.
	NewCandidates int

	// UpdatedCandidates is set when a sync ran.
	UpdatedCandidates int

	// Synced is true if the sync counts are meaningful.
	Synced bool

	// TotalRaw is the number of sightings before deduplication.
	TotalRaw int

	// TotalDeduplicated is the number of merged candidates.
	TotalDeduplicated int

	// Candidates are the merged candidates, sorted by district and name.
	Candidates []MergedCandidate

	// SourceErrors maps failed sources to their error text.
	SourceErrors map[string]string
}

// CoveragePercentage returns the share of districts with candidates, in [0, 100].
func (r *CoverageReport) CoveragePercentage() float64 {
	if r.TotalDistricts <= 0 {
		return 0
	}
	pct := float64(r.DistrictsWithCandidates) / float64(r.TotalDistricts) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// HasConflicts returns true if any conflict needs review.
func (r *CoverageReport) HasConflicts() bool {
	return r.ConflictCount > 0
}

// HasErrors returns true if any source failed.
func (r *CoverageReport) HasErrors() bool {
	return len(r.SourceErrors) > 0
}
