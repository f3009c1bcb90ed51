package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// mockDiscoveryService is a mock implementation of driving.DiscoveryService.
type mockDiscoveryService struct {
	outcome  *driving.RunOutcome
	probe    *domain.AggregationResult
	stored   []*domain.StoredCandidate
	runs     []domain.DiscoveryRun
	err      error
	lastOpts driving.RunOptions
	lastID   string
	lastN    int
}

func (m *mockDiscoveryService) Run(_ context.Context, opts driving.RunOptions) (*driving.RunOutcome, error) {
	m.lastOpts = opts
	return m.outcome, m.err
}

func (m *mockDiscoveryService) ProbeDistrict(_ context.Context, districtID string) (*domain.AggregationResult, error) {
	m.lastID = districtID
	return m.probe, m.err
}

func (m *mockDiscoveryService) Candidates(_ context.Context, districtID string) ([]*domain.StoredCandidate, error) {
	m.lastID = districtID
	if m.err != nil {
		return nil, m.err
	}
	if districtID == "" {
		return m.stored, nil
	}
	var out []*domain.StoredCandidate
	for _, c := range m.stored {
		if c.DistrictID == districtID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockDiscoveryService) SetLocked(_ context.Context, _, _ string, _ bool) error {
	return m.err
}

func (m *mockDiscoveryService) Runs(_ context.Context, limit int) ([]domain.DiscoveryRun, error) {
	m.lastN = limit
	return m.runs, m.err
}

// mockReporter is a mock implementation of driving.CoverageReporter.
type mockReporter struct{}

func (mockReporter) Build(_ *domain.AggregationResult, _ *domain.SyncSummary) *domain.CoverageReport {
	return &domain.CoverageReport{}
}

func (mockReporter) RenderText(_ *domain.CoverageReport) string { return "text" }

func (mockReporter) RenderMarkdown(_ *domain.CoverageReport) string { return "## report" }

func (mockReporter) Summary(r *domain.CoverageReport) string { return "summary " + r.State }

func (mockReporter) RenderJSON(_ *domain.CoverageReport) ([]byte, error) { return []byte("{}"), nil }

func sampleOutcome() *driving.RunOutcome {
	return &driving.RunOutcome{
		Run: &domain.DiscoveryRun{ID: "run-1", Status: domain.RunStatusPartial, StartedAt: time.Now()},
		Report: &domain.CoverageReport{
			State:                   "SC",
			TotalDistricts:          170,
			DistrictsWithCandidates: 85,
			TotalCandidates:         90,
			TotalRaw:                120,
			ConflictCount:           2,
			SourceErrors:            map[string]string{"scgop": "503"},
		},
		Sync: &domain.SyncSummary{Created: 10, Updated: 4},
	}
}

func sampleStored() []*domain.StoredCandidate {
	return []*domain.StoredCandidate{
		{
			Name: "John Smith", DistrictID: "SC-House-001", Party: domain.PartyDemocrat,
			PartyConfidence: domain.ConfidenceHigh, FilingStatus: domain.FilingFiled,
			Sources: []string{"ballotpedia", "scdp"}, Locked: true,
		},
		{
			Name: "Ann Lee", DistrictID: "SC-Senate-010", Party: domain.PartyRepublican,
			PartyConfidence: domain.ConfidenceMedium, Sources: []string{"ballotpedia"},
		},
	}
}
