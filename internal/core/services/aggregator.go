package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

// Ensure Aggregator implements the interface.
var _ driving.Aggregator = (*Aggregator)(nil)

// Aggregator fans out to every source adapter, joins their results and
// reconciles them.
type Aggregator struct {
	adapters   []driven.SourceAdapter
	dedup      *Deduplicator
	scopes     []domain.Scope
	bounds     domain.ChamberBounds
	runTimeout time.Duration
	now        func() time.Time
}

// NewAggregator creates an aggregator over the given adapters.
// Source priorities are taken from the adapters themselves.
func NewAggregator(adapters []driven.SourceAdapter, settings domain.DiscoverySettings) *Aggregator {
	priorities := make(map[string]int, len(adapters))
	for _, a := range adapters {
		priorities[a.Name()] = a.Priority()
	}
	bounds := settings.Bounds
	if len(bounds) == 0 {
		bounds = domain.DefaultChamberBounds()
	}
	return &Aggregator{
		adapters:   adapters,
		dedup:      NewDeduplicator(settings.SimilarityThreshold, priorities),
		scopes:     domain.ScopesFor(settings.State, bounds),
		bounds:     bounds,
		runTimeout: settings.RunTimeout,
		now:        time.Now,
	}
}

// Deduplicator returns the deduplicator the aggregator merges with.
func (a *Aggregator) Deduplicator() *Deduplicator {
	return a.dedup
}

// AggregateAll runs every adapter over the full district space.
func (a *Aggregator) AggregateAll(ctx context.Context) (*domain.AggregationResult, error) {
	return a.run(ctx, func(ctx context.Context, adapter driven.SourceAdapter) ([]domain.DiscoveredCandidate, error) {
		return adapter.DiscoverCandidates(ctx, a.scopes)
	})
}

// AggregateDistrict runs every adapter over a single district.
func (a *Aggregator) AggregateDistrict(ctx context.Context, districtID string) (*domain.AggregationResult, error) {
	d, err := domain.ValidateDistrictID(districtID, a.bounds)
	if err != nil {
		return nil, err
	}
	districtID = d.ID()
	return a.run(ctx, func(ctx context.Context, adapter driven.SourceAdapter) ([]domain.DiscoveredCandidate, error) {
		return adapter.ExtractForScope(ctx, districtID)
	})
}

type discoverFunc func(ctx context.Context, adapter driven.SourceAdapter) ([]domain.DiscoveredCandidate, error)

func (a *Aggregator) run(ctx context.Context, discover discoverFunc) (*domain.AggregationResult, error) {
	if len(a.adapters) == 0 {
		return nil, domain.ErrNoSources
	}

	startedAt := a.now()
	if a.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.runTimeout)
		defer cancel()
	}

	logger.Section("Aggregation")
	logger.Info("running %d sources", len(a.adapters))

	// Each adapter writes only its own slot.
	results := make([]domain.SourceResult, len(a.adapters))
	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(i int, adapter driven.SourceAdapter) {
			defer wg.Done()
			results[i] = runSource(ctx, adapter, discover)
		}(i, adapter)
	}
	wg.Wait()

	result := a.combine(results)
	result.StartedAt = startedAt
	result.CompletedAt = a.now()

	logger.Info("aggregated %d sightings into %d candidates, %d conflicts",
		result.TotalRaw, result.TotalDeduplicated, len(result.Conflicts))
	return result, nil
}

// runSource runs one adapter, turning errors and panics into a failed result.
func runSource(ctx context.Context, adapter driven.SourceAdapter, discover discoverFunc) (res domain.SourceResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = domain.SourceResult{
				Source:   res.Source,
				Success:  false,
				Error:    fmt.Sprintf("panic: %v", r),
				Duration: time.Since(start),
			}
			logger.Error("source %s panicked: %v", res.Source, r)
		}
	}()

	res.Source = adapter.Name()
	candidates, err := discover(ctx, adapter)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		logger.Warn("source %s failed: %v", res.Source, err)
		return res
	}

	res.Success = true
	res.Candidates = candidates
	logger.Info("source %s: %d sightings in %s", res.Source, len(candidates), res.Duration.Round(time.Millisecond))
	return res
}

func (a *Aggregator) combine(results []domain.SourceResult) *domain.AggregationResult {
	stats := make(map[string]int, len(results))
	var raw []domain.DiscoveredCandidate
	for _, r := range results {
		if !r.Success {
			stats[r.Source] = 0
			continue
		}
		stats[r.Source] = len(r.Candidates)
		raw = append(raw, r.Candidates...)
	}

	merged := a.dedup.Deduplicate(raw)
	return &domain.AggregationResult{
		Candidates:        merged,
		SourceStats:       stats,
		SourceResults:     results,
		Conflicts:         DetectConflicts(merged),
		TotalRaw:          len(raw),
		TotalDeduplicated: len(merged),
	}
}

// DetectConflicts scans candidates backed by two or more sources for
// disagreeing party values.
func DetectConflicts(candidates []domain.MergedCandidate) []domain.ConflictRecord {
	conflicts := []domain.ConflictRecord{}
	for i := range candidates {
		m := &candidates[i]
		if len(m.Sources) < 2 {
			continue
		}

		seen := make(map[domain.Party]bool)
		var values []string
		for _, r := range m.SourceRecords {
			if r.Party.IsKnown() && !seen[r.Party] {
				seen[r.Party] = true
				values = append(values, r.Party.String())
			}
		}
		if len(values) < 2 {
			continue
		}

		sort.Strings(values)
		conflicts = append(conflicts, domain.ConflictRecord{
			CandidateName:    m.Name,
			DistrictID:       m.DistrictID,
			ConflictType:     domain.ConflictParty,
			CandidateValues:  values,
			ResolvedValue:    m.Party.String(),
			ResolvedBySource: m.PartySource,
		})
	}
	return conflicts
}
