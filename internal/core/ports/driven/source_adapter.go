package driven

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// SourceAdapter discovers candidates from one public source.
// Each source (ballotpedia, scdp, scgop) implements this interface.
type SourceAdapter interface {
	// Name returns the stable source identifier.
	Name() string

	// Priority ranks the source; lower is more authoritative.
	Priority() int

	// DiscoverCandidates returns every candidate found within the scopes.
	// Units that fail after retries are skipped. An error is returned only
	// when the source failed as a whole.
	DiscoverCandidates(ctx context.Context, scopes []domain.Scope) ([]domain.DiscoveredCandidate, error)

	// ExtractForScope returns the candidates of a single district,
	// served from the adapter's cache when possible.
	ExtractForScope(ctx context.Context, districtID string) ([]domain.DiscoveredCandidate, error)
}

// SourceAdapterBuilder creates a SourceAdapter from its settings.
type SourceAdapterBuilder func(settings domain.SourceSettings, discovery domain.DiscoverySettings, fetcher PageFetcher) (SourceAdapter, error)

// SourceAdapterFactory creates adapters for the enabled sources.
type SourceAdapterFactory interface {
	// Create builds the adapter for one source.
	Create(settings domain.SourceSettings, discovery domain.DiscoverySettings) (SourceAdapter, error)

	// CreateAll builds adapters for every active source, in configured order.
	CreateAll(discovery domain.DiscoverySettings) ([]SourceAdapter, error)

	// SupportedKinds returns the adapter kinds the factory can build.
	SupportedKinds() []domain.SourceKind
}
