package domain

import (
	"strings"
	"time"
)

// CandidateKey identifies a stored candidate.
type CandidateKey struct {
	Name       string
	DistrictID string
}

// KeyOf returns the store key for a name and district.
// Names compare case-insensitively with surrounding space ignored.
func KeyOf(name, districtID string) CandidateKey {
	return CandidateKey{
		Name:       strings.ToLower(strings.Join(strings.Fields(name), " ")),
		DistrictID: districtID,
	}
}

// StoredCandidate is a candidate as held by the persistent store.
type StoredCandidate struct {
	Name            string
	DistrictID      string
	Party           Party
	PartyConfidence PartyConfidence
	PartySource     string
	Sources         []string
	SourceURLs      map[string]string
	FilingStatus    FilingStatus
	Incumbent       bool

	// Locked records keep party and identity unless a strictly more
	// authoritative source disagrees.
	Locked bool

	FirstSeen time.Time
	LastSeen  time.Time
}

// Key returns the store key.
func (c *StoredCandidate) Key() CandidateKey {
	return KeyOf(c.Name, c.DistrictID)
}

// SyncSummary counts what a sync changed.
type SyncSummary struct {
	Created   int
	Updated   int
	Unchanged int

	// Locked counts locked records that kept their values.
	Locked int
}

// Total returns the number of candidates processed.
func (s *SyncSummary) Total() int {
	return s.Created + s.Updated + s.Unchanged
}
