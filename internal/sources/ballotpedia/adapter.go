package ballotpedia

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/logger"
	"github.com/custodia-labs/ballotwatch/internal/sources/gate"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter discovers candidates from per-district directory pages.
type Adapter struct {
	name      string
	priority  int
	state     string
	bounds    domain.ChamberBounds
	templates map[domain.Chamber]string
	heading   string
	fetcher   driven.PageFetcher
	now       func() time.Time

	mu    sync.Mutex
	cache map[string][]domain.DiscoveredCandidate
}

// New builds a directory adapter. fetcher is wrapped in the source's
// rate limiter and retry policy.
func New(src domain.SourceSettings, discovery domain.DiscoverySettings, fetcher driven.PageFetcher) (driven.SourceAdapter, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("%w: %s: no fetcher", domain.ErrInvalidInput, src.Name)
	}
	for _, c := range discovery.Bounds.Chambers() {
		if src.URLTemplates[c] == "" {
			return nil, fmt.Errorf("%w: %s: no URL template for %s", domain.ErrInvalidInput, src.Name, c)
		}
	}

	heading := src.SectionHeading
	if heading == "" && discovery.ElectionYear > 0 {
		heading = strconv.Itoa(discovery.ElectionYear)
	}

	return &Adapter{
		name:      src.Name,
		priority:  src.Priority,
		state:     discovery.State,
		bounds:    discovery.Bounds,
		templates: src.URLTemplates,
		heading:   heading,
		fetcher:   gate.ForSource(src, discovery, fetcher),
		now:       time.Now,
		cache:     make(map[string][]domain.DiscoveredCandidate),
	}, nil
}

// Name returns the source identifier.
func (a *Adapter) Name() string { return a.name }

// Priority returns the source priority.
func (a *Adapter) Priority() int { return a.priority }

// DiscoverCandidates fetches every district page in the scopes, one at a time.
func (a *Adapter) DiscoverCandidates(ctx context.Context, scopes []domain.Scope) ([]domain.DiscoveredCandidate, error) {
	var (
		out       []domain.DiscoveredCandidate
		attempted int
		failed    int
		lastErr   error
	)

scan:
	for _, scope := range scopes {
		for _, n := range scope.Numbers(a.bounds) {
			if ctx.Err() != nil {
				break scan
			}
			d := domain.District{State: a.state, Chamber: scope.Chamber, Number: n}

			attempted++
			found, err := a.district(ctx, d)
			if err != nil {
				if ctx.Err() != nil {
					attempted--
					break scan
				}
				failed++
				lastErr = err
				logger.Warn("%s: skipping %s: %v", a.name, d.ID(), err)
				continue
			}
			out = append(out, found...)
		}
	}

	// Cancelled before anything succeeded.
	if ctx.Err() != nil && failed == attempted {
		return nil, ctx.Err()
	}
	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("%w: %s: all %d district pages failed: %w", domain.ErrSourceFailed, a.name, attempted, lastErr)
	}
	logger.Debug("%s: %d candidates from %d pages (%d failed)", a.name, len(out), attempted, failed)
	return out, nil
}

// ExtractForScope returns one district's candidates, fetching on a cache miss.
func (a *Adapter) ExtractForScope(ctx context.Context, districtID string) ([]domain.DiscoveredCandidate, error) {
	d, err := domain.ValidateDistrictID(districtID, a.bounds)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	cached, ok := a.cache[d.ID()]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}
	return a.district(ctx, d)
}

// district fetches and parses one district page, caching the result.
func (a *Adapter) district(ctx context.Context, d domain.District) ([]domain.DiscoveredCandidate, error) {
	url := ExpandTemplate(a.templates[d.Chamber], d.Number)
	if url == "" {
		return nil, fmt.Errorf("%w: no URL template for %s", domain.ErrInvalidInput, d.Chamber)
	}

	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	entries := ParseEntries(ElectionSection(page.Text, a.heading))
	found := make([]domain.DiscoveredCandidate, 0, len(entries))
	now := a.now()
	for _, e := range entries {
		found = append(found, domain.DiscoveredCandidate{
			Name:            e.Name,
			DistrictID:      d.ID(),
			Party:           e.Party,
			PartyConfidence: domain.ConfidenceMedium,
			Source:          a.name,
			SourceURL:       url,
			FilingStatus:    e.Status,
			DiscoveredAt:    now,
			Incumbent:       e.Incumbent,
		})
	}

	a.mu.Lock()
	a.cache[d.ID()] = found
	a.mu.Unlock()
	return found, nil
}

// ExpandTemplate fills {n} and {nnn} placeholders with the district number.
func ExpandTemplate(template string, n int) string {
	if template == "" {
		return ""
	}
	out := strings.ReplaceAll(template, "{nnn}", fmt.Sprintf("%03d", n))
	return strings.ReplaceAll(out, "{n}", strconv.Itoa(n))
}
