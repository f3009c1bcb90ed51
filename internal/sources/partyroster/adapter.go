package partyroster

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/mmcdole/gofeed"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/logger"
	"github.com/custodia-labs/ballotwatch/internal/sources/gate"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter discovers one party's candidates from its own pages and feeds.
type Adapter struct {
	name     string
	priority int
	party    domain.Party
	state    string
	bounds   domain.ChamberBounds
	urls     []string
	feeds    []string

	fetcher   driven.PageFetcher
	parser    *gofeed.Parser
	converter *converter.Converter
	now       func() time.Time

	mu     sync.Mutex
	loaded bool
	cache  map[string][]domain.DiscoveredCandidate
}

// unit is one fetchable page or feed.
type unit struct {
	url  string
	feed bool
}

// New builds a party roster adapter. The source must name a known party
// and at least one page or feed.
func New(src domain.SourceSettings, discovery domain.DiscoverySettings, fetcher driven.PageFetcher) (driven.SourceAdapter, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("%w: %s: no fetcher", domain.ErrInvalidInput, src.Name)
	}
	if !src.Party.IsKnown() {
		return nil, fmt.Errorf("%w: %s: party roster needs a party", domain.ErrInvalidInput, src.Name)
	}
	if len(src.URLs) == 0 && len(src.Feeds) == 0 {
		return nil, fmt.Errorf("%w: %s: no URLs or feeds", domain.ErrInvalidInput, src.Name)
	}

	return &Adapter{
		name:     src.Name,
		priority: src.Priority,
		party:    src.Party,
		state:    discovery.State,
		bounds:   discovery.Bounds,
		urls:     src.URLs,
		feeds:    src.Feeds,
		fetcher:  gate.ForSource(src, discovery, fetcher),
		parser:   gofeed.NewParser(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		now:   time.Now,
		cache: make(map[string][]domain.DiscoveredCandidate),
	}, nil
}

// Name returns the source identifier.
func (a *Adapter) Name() string { return a.name }

// Priority returns the source priority.
func (a *Adapter) Priority() int { return a.priority }

// DiscoverCandidates reads every roster page and feed and keeps the
// candidates whose district falls inside the scopes.
func (a *Adapter) DiscoverCandidates(ctx context.Context, scopes []domain.Scope) ([]domain.DiscoveredCandidate, error) {
	all, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.DiscoveredCandidate
	for _, c := range all {
		d, err := domain.ParseDistrictID(c.DistrictID)
		if err != nil {
			continue
		}
		for _, s := range scopes {
			if s.Contains(d) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

// ExtractForScope returns one district's candidates. Rosters are not per
// district, so a cache miss scans every unit once.
func (a *Adapter) ExtractForScope(ctx context.Context, districtID string) ([]domain.DiscoveredCandidate, error) {
	d, err := domain.ValidateDistrictID(districtID, a.bounds)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	loaded := a.loaded
	a.mu.Unlock()
	if !loaded {
		if _, err := a.scan(ctx); err != nil {
			return nil, err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cache[d.ID()], nil
}

// scan fetches every unit, extracts candidates and refreshes the cache.
func (a *Adapter) scan(ctx context.Context) ([]domain.DiscoveredCandidate, error) {
	units := make([]unit, 0, len(a.urls)+len(a.feeds))
	for _, u := range a.urls {
		units = append(units, unit{url: u})
	}
	for _, f := range a.feeds {
		units = append(units, unit{url: f, feed: true})
	}

	var (
		out       []domain.DiscoveredCandidate
		index     = make(map[string]int)
		attempted int
		failed    int
		lastErr   error
	)
	collect := func(found []domain.DiscoveredCandidate) {
		for _, c := range found {
			key := strings.ToLower(c.Name) + "|" + c.DistrictID
			if i, dup := index[key]; dup {
				out[i].FilingStatus = domain.MostAdvanced(out[i].FilingStatus, c.FilingStatus)
				continue
			}
			index[key] = len(out)
			out = append(out, c)
		}
	}

	for _, u := range units {
		if ctx.Err() != nil {
			break
		}
		attempted++

		var (
			found []domain.DiscoveredCandidate
			err   error
		)
		if u.feed {
			found, err = a.readFeed(ctx, u.url)
		} else {
			found, err = a.readPage(ctx, u.url)
		}
		if err != nil {
			if ctx.Err() != nil {
				attempted--
				break
			}
			failed++
			lastErr = err
			logger.Warn("%s: skipping %s: %v", a.name, u.url, err)
			continue
		}
		collect(found)
	}

	// Cancelled before anything succeeded.
	if ctx.Err() != nil && failed == attempted {
		return nil, ctx.Err()
	}
	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("%w: %s: all %d pages failed: %w", domain.ErrSourceFailed, a.name, attempted, lastErr)
	}

	a.store(out)
	logger.Debug("%s: %d candidates from %d units (%d failed)", a.name, len(out), attempted, failed)
	return out, nil
}

func (a *Adapter) store(found []domain.DiscoveredCandidate) {
	byDistrict := make(map[string][]domain.DiscoveredCandidate)
	for _, c := range found {
		byDistrict[c.DistrictID] = append(byDistrict[c.DistrictID], c)
	}

	a.mu.Lock()
	a.cache = byDistrict
	a.loaded = true
	a.mu.Unlock()
}

func (a *Adapter) readPage(ctx context.Context, url string) ([]domain.DiscoveredCandidate, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return a.candidates(page.Text, url), nil
}

func (a *Adapter) readFeed(ctx context.Context, url string) ([]domain.DiscoveredCandidate, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	body := string(page.Raw)
	if body == "" {
		body = page.Text
	}
	feed, err := a.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	var out []domain.DiscoveredCandidate
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			link = url
		}
		text := item.Title + "\n\n" + a.markdown(item.Description) + "\n\n" + a.markdown(item.Content)
		out = append(out, a.candidates(text, link)...)
	}
	return out, nil
}

// markdown converts an HTML fragment to markdown so bold names survive.
func (a *Adapter) markdown(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	md, err := a.converter.ConvertString(fragment)
	if err != nil {
		logger.Debug("%s: convert feed content: %v", a.name, err)
		return fragment
	}
	return md
}

func (a *Adapter) candidates(text, url string) []domain.DiscoveredCandidate {
	hits := Extract(text, a.bounds)
	now := a.now()
	out := make([]domain.DiscoveredCandidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.DiscoveredCandidate{
			Name:            h.Name,
			DistrictID:      domain.FormatDistrictID(a.state, h.Chamber, h.Number),
			Party:           a.party,
			PartyConfidence: domain.ConfidenceHigh,
			Source:          a.name,
			SourceURL:       url,
			FilingStatus:    h.Status,
			DiscoveredAt:    now,
			Extra:           map[string]string{"pattern": h.Pattern},
		})
	}
	return out
}
