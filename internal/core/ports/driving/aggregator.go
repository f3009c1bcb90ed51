package driving

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// Aggregator runs every source adapter and reconciles their output.
type Aggregator interface {
	// AggregateAll runs all adapters concurrently, deduplicates their
	// sightings and surfaces conflicts. Adapter failures are reported in
	// the result, never returned. Returns domain.ErrNoSources when no
	// adapter is configured.
	AggregateAll(ctx context.Context) (*domain.AggregationResult, error)

	// AggregateDistrict does the same for a single district, using each
	// adapter's ExtractForScope.
	AggregateDistrict(ctx context.Context, districtID string) (*domain.AggregationResult, error)
}

// CandidateSync persists merged candidates into the candidate store.
type CandidateSync interface {
	// Sync matches incoming candidates against the stored state, inserting
	// new ones and updating existing ones while honouring locks.
	Sync(ctx context.Context, candidates []domain.MergedCandidate) (*domain.SyncSummary, error)
}

// CoverageReporter summarises an aggregation result.
type CoverageReporter interface {
	// Build computes the coverage report. sync may be nil.
	Build(result *domain.AggregationResult, sync *domain.SyncSummary) *domain.CoverageReport

	// RenderText renders the report as plain text for a terminal.
	RenderText(report *domain.CoverageReport) string

	// RenderMarkdown renders the report for embedding in a notification.
	RenderMarkdown(report *domain.CoverageReport) string

	// Summary renders a single line.
	Summary(report *domain.CoverageReport) string

	// RenderJSON renders the report as structured JSON.
	RenderJSON(report *domain.CoverageReport) ([]byte, error)
}
