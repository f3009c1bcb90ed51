package sources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/sources/ballotpedia"
	"github.com/custodia-labs/ballotwatch/internal/sources/partyroster"
)

// Ensure Factory implements the interface.
var _ driven.SourceAdapterFactory = (*Factory)(nil)

// Factory creates source adapters from settings.
type Factory struct {
	mu       sync.RWMutex
	fetcher  driven.PageFetcher
	builders map[domain.SourceKind]driven.SourceAdapterBuilder
}

// NewFactory creates a factory with the built-in adapter kinds registered.
func NewFactory(fetcher driven.PageFetcher) *Factory {
	f := &Factory{
		fetcher:  fetcher,
		builders: make(map[domain.SourceKind]driven.SourceAdapterBuilder),
	}
	f.Register(domain.SourceKindDirectory, ballotpedia.New)
	f.Register(domain.SourceKindPartyRoster, partyroster.New)
	return f
}

// Register adds or replaces the builder for a kind.
func (f *Factory) Register(kind domain.SourceKind, builder driven.SourceAdapterBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[kind] = builder
}

// Create builds the adapter for one source.
// Returns ErrUnsupportedType if no builder handles the source's kind.
func (f *Factory) Create(src domain.SourceSettings, discovery domain.DiscoverySettings) (driven.SourceAdapter, error) {
	f.mu.RLock()
	builder, ok := f.builders[src.Kind]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: source %s has kind %q", domain.ErrUnsupportedType, src.Name, src.Kind)
	}
	return builder(src, discovery, f.fetcher)
}

// CreateAll builds an adapter for every active source, in configured order.
// Any source that cannot be built fails the whole call, so a misconfigured
// run stops before it touches the network.
func (f *Factory) CreateAll(discovery domain.DiscoverySettings) ([]driven.SourceAdapter, error) {
	active := discovery.ActiveSources()
	if len(active) == 0 {
		return nil, domain.ErrNoSources
	}

	adapters := make([]driven.SourceAdapter, 0, len(active))
	for _, src := range active {
		a, err := f.Create(src, discovery)
		if err != nil {
			return nil, fmt.Errorf("build source %s: %w", src.Name, err)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// SupportedKinds returns the registered kinds, sorted.
func (f *Factory) SupportedKinds() []domain.SourceKind {
	f.mu.RLock()
	defer f.mu.RUnlock()

	kinds := make([]domain.SourceKind, 0, len(f.builders))
	for k := range f.builders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
