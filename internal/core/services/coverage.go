package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// Ensure CoverageReporter implements the interface.
var _ driving.CoverageReporter = (*CoverageReporter)(nil)

// CoverageReporter summarises aggregation output against the district space.
type CoverageReporter struct {
	state   string
	bounds  domain.ChamberBounds
	unicode bool
	now     func() time.Time
}

// NewCoverageReporter creates a reporter for the configured state and bounds.
func NewCoverageReporter(settings domain.DiscoverySettings) *CoverageReporter {
	bounds := settings.Bounds
	if len(bounds) == 0 {
		bounds = domain.DefaultChamberBounds()
	}
	return &CoverageReporter{
		state:  strings.ToUpper(settings.State),
		bounds: bounds,
		now:    time.Now,
	}
}

// SetUnicode switches text tables to box-drawing characters.
func (r *CoverageReporter) SetUnicode(on bool) {
	r.unicode = on
}

// Build computes the coverage report. sync may be nil.
func (r *CoverageReporter) Build(result *domain.AggregationResult, sync *domain.SyncSummary) *domain.CoverageReport {
	if result == nil {
		result = &domain.AggregationResult{}
	}

	report := &domain.CoverageReport{
		State:             r.state,
		GeneratedAt:       r.now(),
		TotalCandidates:   len(result.Candidates),
		ByParty:           make(map[string]int),
		BySource:          make(map[string]int, len(result.SourceStats)),
		ConflictCount:     len(result.Conflicts),
		Conflicts:         append([]domain.ConflictRecord(nil), result.Conflicts...),
		TotalRaw:          result.TotalRaw,
		TotalDeduplicated: result.TotalDeduplicated,
		SourceErrors:      result.SourceErrors(),
	}

	all := r.bounds.Enumerate(r.state)
	report.TotalDistricts = len(all)

	present := make(map[string]bool)
	for i := range result.Candidates {
		c := &result.Candidates[i]
		present[c.DistrictID] = true
		report.ByParty[c.Party.Label()]++
	}
	for _, id := range all {
		if present[id] {
			report.DistrictsWithCandidates++
		} else {
			report.DistrictsWithoutCandidates = append(report.DistrictsWithoutCandidates, id)
		}
	}

	for source, n := range result.SourceStats {
		report.BySource[source] = n
	}

	report.Candidates = append([]domain.MergedCandidate(nil), result.Candidates...)
	domain.SortCandidates(report.Candidates)

	if sync != nil {
		report.Synced = true
		report.NewCandidates = sync.Created
		report.UpdatedCandidates = sync.Updated
	}
	return report
}

// Summary renders a single line.
func (r *CoverageReporter) Summary(report *domain.CoverageReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s coverage %.1f%% (%d/%d districts), %d candidates from %d sightings",
		report.State, report.CoveragePercentage(), report.DistrictsWithCandidates, report.TotalDistricts,
		report.TotalCandidates, report.TotalRaw)
	if report.Synced {
		fmt.Fprintf(&b, ", %d new, %d updated", report.NewCandidates, report.UpdatedCandidates)
	}
	fmt.Fprintf(&b, ", %d conflicts", report.ConflictCount)
	if n := len(report.SourceErrors); n > 0 {
		fmt.Fprintf(&b, ", %d sources failed", n)
	}
	return b.String()
}

// RenderText renders the report as plain text for a terminal.
func (r *CoverageReporter) RenderText(report *domain.CoverageReport) string {
	var b strings.Builder

	section(&b, "SUMMARY")
	fmt.Fprintf(&b, "State:              %s\n", report.State)
	fmt.Fprintf(&b, "Generated:          %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Coverage:           %.1f%% (%d of %d districts)\n",
		report.CoveragePercentage(), report.DistrictsWithCandidates, report.TotalDistricts)
	fmt.Fprintf(&b, "Candidates:         %d (from %d sightings)\n", report.TotalCandidates, report.TotalRaw)
	if report.Synced {
		fmt.Fprintf(&b, "New / updated:      %d / %d\n", report.NewCandidates, report.UpdatedCandidates)
	}
	fmt.Fprintf(&b, "Conflicts:          %d\n", report.ConflictCount)
	for _, source := range sortedKeys(report.SourceErrors) {
		fmt.Fprintf(&b, "Source failed:      %s: %s\n", source, report.SourceErrors[source])
	}

	section(&b, "CANDIDATES")
	if len(report.Candidates) == 0 {
		b.WriteString("No candidates found.\n")
	} else {
		b.WriteString(r.table(candidateRows(report.Candidates), false))
		b.WriteString("\n")
	}

	section(&b, "BY PARTY")
	b.WriteString(r.table(countRows("Party", report.ByParty), false))
	b.WriteString("\n")

	section(&b, "BY SOURCE")
	b.WriteString(r.table(countRows("Source", report.BySource), false))
	b.WriteString("\n")

	if report.HasConflicts() {
		section(&b, "CONFLICTS")
		b.WriteString(r.table(conflictRows(report.Conflicts), false))
		b.WriteString("\n")
	}

	section(&b, "DISTRICTS WITHOUT CANDIDATES")
	if len(report.DistrictsWithoutCandidates) == 0 {
		b.WriteString("None.\n")
	} else {
		fmt.Fprintf(&b, "%d districts:\n", len(report.DistrictsWithoutCandidates))
		b.WriteString(wrapIDs(report.DistrictsWithoutCandidates, 6))
	}

	return b.String()
}

// RenderMarkdown renders the report for embedding in a notification.
// Conflicts are listed first so reviewers see them.
func (r *CoverageReporter) RenderMarkdown(report *domain.CoverageReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Candidate discovery: %s\n\n", report.State)
	fmt.Fprintf(&b, "**%s**\n\n", r.Summary(report))

	if report.HasConflicts() {
		fmt.Fprintf(&b, "### Needs review: %d conflicts\n\n", report.ConflictCount)
		b.WriteString(r.table(conflictRows(report.Conflicts), true))
		b.WriteString("\n\n")
	}

	if report.HasErrors() {
		b.WriteString("### Failed sources\n\n")
		for _, source := range sortedKeys(report.SourceErrors) {
			fmt.Fprintf(&b, "- **%s**: %s\n", source, report.SourceErrors[source])
		}
		b.WriteString("\n")
	}

	b.WriteString("### By party\n\n")
	b.WriteString(r.table(countRows("Party", report.ByParty), true))
	b.WriteString("\n\n### By source\n\n")
	b.WriteString(r.table(countRows("Source", report.BySource), true))
	b.WriteString("\n")

	if len(report.Candidates) > 0 {
		b.WriteString("\n### Candidates\n\n")
		b.WriteString(r.table(candidateRows(report.Candidates), true))
		b.WriteString("\n")
	}

	if n := len(report.DistrictsWithoutCandidates); n > 0 {
		fmt.Fprintf(&b, "\n### Districts without candidates (%d)\n\n", n)
		b.WriteString(strings.Join(report.DistrictsWithoutCandidates, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

// jsonReport is the wire shape of RenderJSON.
type jsonReport struct {
	State                      string            `json:"state"`
	GeneratedAt                time.Time         `json:"generated_at"`
	CoveragePercentage         float64           `json:"coverage_percentage"`
	TotalDistricts             int               `json:"total_districts"`
	DistrictsWithCandidates    int               `json:"districts_with_candidates"`
	DistrictsWithoutCandidates []string          `json:"districts_without_candidates"`
	TotalCandidates            int               `json:"total_candidates"`
	TotalRaw                   int               `json:"total_raw"`
	ByParty                    map[string]int    `json:"by_party"`
	BySource                   map[string]int    `json:"by_source"`
	NewCandidates              *int              `json:"new_candidates,omitempty"`
	UpdatedCandidates          *int              `json:"updated_candidates,omitempty"`
	Conflicts                  []jsonConflict    `json:"conflicts"`
	SourceErrors               map[string]string `json:"source_errors,omitempty"`
	Candidates                 []jsonCandidate   `json:"candidates"`
}

type jsonConflict struct {
	CandidateName    string   `json:"candidate_name"`
	DistrictID       string   `json:"district_id"`
	ConflictType     string   `json:"conflict_type"`
	CandidateValues  []string `json:"candidate_values"`
	ResolvedValue    string   `json:"resolved_value"`
	ResolvedBySource string   `json:"resolved_by_source"`
}

type jsonCandidate struct {
	Name            string            `json:"name"`
	DistrictID      string            `json:"district_id"`
	Party           string            `json:"party,omitempty"`
	PartyConfidence string            `json:"party_confidence"`
	PartySource     string            `json:"party_source"`
	FilingStatus    string            `json:"filing_status,omitempty"`
	Incumbent       bool              `json:"incumbent"`
	Sources         []string          `json:"sources"`
	SourceURLs      map[string]string `json:"source_urls"`
}

// RenderJSON renders the report as structured JSON.
func (r *CoverageReporter) RenderJSON(report *domain.CoverageReport) ([]byte, error) {
	out := jsonReport{
		State:                      report.State,
		GeneratedAt:                report.GeneratedAt,
		CoveragePercentage:         report.CoveragePercentage(),
		TotalDistricts:             report.TotalDistricts,
		DistrictsWithCandidates:    report.DistrictsWithCandidates,
		DistrictsWithoutCandidates: nonNil(report.DistrictsWithoutCandidates),
		TotalCandidates:            report.TotalCandidates,
		TotalRaw:                   report.TotalRaw,
		ByParty:                    report.ByParty,
		BySource:                   report.BySource,
		Conflicts:                  make([]jsonConflict, 0, len(report.Conflicts)),
		SourceErrors:               report.SourceErrors,
		Candidates:                 make([]jsonCandidate, 0, len(report.Candidates)),
	}
	if report.Synced {
		out.NewCandidates = &report.NewCandidates
		out.UpdatedCandidates = &report.UpdatedCandidates
	}
	for _, c := range report.Conflicts {
		out.Conflicts = append(out.Conflicts, jsonConflict{
			CandidateName:    c.CandidateName,
			DistrictID:       c.DistrictID,
			ConflictType:     string(c.ConflictType),
			CandidateValues:  c.CandidateValues,
			ResolvedValue:    c.ResolvedValue,
			ResolvedBySource: c.ResolvedBySource,
		})
	}
	for i := range report.Candidates {
		c := &report.Candidates[i]
		out.Candidates = append(out.Candidates, jsonCandidate{
			Name:            c.Name,
			DistrictID:      c.DistrictID,
			Party:           c.Party.String(),
			PartyConfidence: c.PartyConfidence.String(),
			PartySource:     c.PartySource,
			FilingStatus:    c.FilingStatus.String(),
			Incumbent:       c.Incumbent,
			Sources:         c.Sources,
			SourceURLs:      c.SourceURLs,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

type rows struct {
	header []string
	body   [][]string
	right  map[int]bool
}

func (r *CoverageReporter) table(t rows, markdown bool) string {
	tw := table.NewWriter()
	switch {
	case markdown:
		// RenderMarkdown ignores the style.
	case r.unicode:
		tw.SetStyle(table.StyleRounded)
	default:
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.body {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		tw.AppendRow(tr)
	}

	configs := make([]table.ColumnConfig, 0, len(t.header))
	for i := range t.header {
		align := text.AlignLeft
		if t.right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	if markdown {
		return tw.RenderMarkdown()
	}
	return tw.Render()
}

func candidateRows(candidates []domain.MergedCandidate) rows {
	t := rows{header: []string{"District", "Name", "Party", "Status", "Incumbent", "Sources"}}
	for i := range candidates {
		c := &candidates[i]
		incumbent := ""
		if c.Incumbent {
			incumbent = "yes"
		}
		t.body = append(t.body, []string{
			c.DistrictID, c.Name, c.Party.Label(), c.FilingStatus.Label(), incumbent, strings.Join(c.Sources, ", "),
		})
	}
	return t
}

func countRows(label string, counts map[string]int) rows {
	t := rows{header: []string{label, "Count"}, right: map[int]bool{1: true}}
	for _, k := range sortedKeys(counts) {
		t.body = append(t.body, []string{k, fmt.Sprintf("%d", counts[k])})
	}
	return t
}

func conflictRows(conflicts []domain.ConflictRecord) rows {
	t := rows{header: []string{"District", "Candidate", "Type", "Values", "Kept", "Kept from"}}
	for _, c := range conflicts {
		t.body = append(t.body, []string{
			c.DistrictID, c.CandidateName, string(c.ConflictType),
			strings.Join(c.CandidateValues, " / "), c.ResolvedValue, c.ResolvedBySource,
		})
	}
	return t
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(title)))
	b.WriteString("\n")
}

func wrapIDs(ids []string, perLine int) string {
	var b strings.Builder
	for i := 0; i < len(ids); i += perLine {
		end := i + perLine
		if end > len(ids) {
			end = len(ids)
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(ids[i:end], "  "))
		b.WriteString("\n")
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
