package services

import (
	"sort"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

const defaultThreshold = domain.DefaultSimilarityThreshold

// Deduplicator clusters sightings of the same person in the same district
// and merges each cluster into one MergedCandidate.
type Deduplicator struct {
	matcher    *NameMatcher
	priorities map[string]int
}

// NewDeduplicator creates a deduplicator.
// priorities maps source names to their priority; lower is more authoritative.
// Sources missing from the map rank after every known source.
func NewDeduplicator(threshold float64, priorities map[string]int) *Deduplicator {
	p := make(map[string]int, len(priorities)+1)
	p[domain.SourceManual] = domain.ManualPriority
	for k, v := range priorities {
		p[k] = v
	}
	return &Deduplicator{
		matcher:    NewNameMatcher(threshold),
		priorities: p,
	}
}

// Matcher returns the name matcher in use.
func (d *Deduplicator) Matcher() *NameMatcher {
	return d.matcher
}

// Priority returns the priority of a source.
func (d *Deduplicator) Priority(source string) int {
	if p, ok := d.priorities[source]; ok {
		return p
	}
	return domain.UnrankedPriority
}

// Deduplicate partitions records by district, clusters each partition
// greedily by name and merges every cluster. Output follows the order in
// which districts and cluster pivots first appear. The input is not modified.
func (d *Deduplicator) Deduplicate(records []domain.DiscoveredCandidate) []domain.MergedCandidate {
	if len(records) == 0 {
		return []domain.MergedCandidate{}
	}

	var order []string
	partitions := make(map[string][]domain.DiscoveredCandidate)
	for _, r := range records {
		if _, seen := partitions[r.DistrictID]; !seen {
			order = append(order, r.DistrictID)
		}
		partitions[r.DistrictID] = append(partitions[r.DistrictID], r)
	}

	merged := make([]domain.MergedCandidate, 0, len(records))
	for _, districtID := range order {
		for _, cluster := range d.cluster(partitions[districtID]) {
			merged = append(merged, d.Merge(cluster))
		}
	}
	return merged
}

// cluster is a single greedy pass: each unclustered record pivots a new
// cluster and absorbs every later unclustered record matching the pivot.
func (d *Deduplicator) cluster(records []domain.DiscoveredCandidate) [][]domain.DiscoveredCandidate {
	clustered := make([]bool, len(records))
	var clusters [][]domain.DiscoveredCandidate

	for i := range records {
		if clustered[i] {
			continue
		}
		clustered[i] = true
		group := []domain.DiscoveredCandidate{records[i]}
		for j := i + 1; j < len(records); j++ {
			if clustered[j] {
				continue
			}
			if d.matcher.Match(records[i].Name, records[j].Name) {
				clustered[j] = true
				group = append(group, records[j])
			}
		}
		clusters = append(clusters, group)
	}
	return clusters
}

// Merge reconciles one cluster. The most authoritative sighting supplies
// the name; the first known party in priority order wins.
func (d *Deduplicator) Merge(cluster []domain.DiscoveredCandidate) domain.MergedCandidate {
	members := make([]domain.DiscoveredCandidate, len(cluster))
	copy(members, cluster)
	sort.SliceStable(members, func(i, j int) bool {
		return d.Priority(members[i].Source) < d.Priority(members[j].Source)
	})

	lead := members[0]
	m := domain.MergedCandidate{
		Name:            lead.Name,
		DistrictID:      lead.DistrictID,
		PartyConfidence: domain.ConfidenceUnknown,
		PartySource:     lead.Source,
		SourceURLs:      make(map[string]string),
		DiscoveredAt:    lead.DiscoveredAt,
		SourceRecords:   members,
	}

	partySet := false
	seen := make(map[string]bool)
	for _, r := range members {
		if !partySet && r.Party.IsKnown() {
			m.Party = r.Party
			m.PartyConfidence = r.PartyConfidence
			m.PartySource = r.Source
			partySet = true
		}
		m.Incumbent = m.Incumbent || r.Incumbent
		m.FilingStatus = domain.MostAdvanced(m.FilingStatus, r.FilingStatus)
		if !r.DiscoveredAt.IsZero() && (m.DiscoveredAt.IsZero() || r.DiscoveredAt.Before(m.DiscoveredAt)) {
			m.DiscoveredAt = r.DiscoveredAt
		}
		if !seen[r.Source] {
			seen[r.Source] = true
			m.Sources = append(m.Sources, r.Source)
		}
		if _, ok := m.SourceURLs[r.Source]; !ok && r.SourceURL != "" {
			m.SourceURLs[r.Source] = r.SourceURL
		}
	}
	sort.Strings(m.Sources)

	return m
}
