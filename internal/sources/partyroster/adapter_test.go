package partyroster

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

const (
	rosterURL = "https://party.test/candidates/"
	newsURL   = "https://party.test/news/"
	feedURL   = "https://party.test/feed/"
)

const rosterPage = `# Our Candidates

**Jane Doe**, House District 42

**Tom Fox**, SD 3

- Lena Park - HD 118
`

const newsFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Party News</title>
<item>
<title>Jane Doe files for House District 42</title>
<link>https://party.test/news/jane</link>
<description>&lt;p&gt;Jane Doe filed to run for &lt;strong&gt;House District 42&lt;/strong&gt;.&lt;/p&gt;</description>
</item>
<item>
<title>Weekly update</title>
<description>Volunteers met on Tuesday.</description>
</item>
</channel>
</rss>`

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*domain.Page
	calls map[string]int
}

func newFakeFetcher(pages map[string]*domain.Page) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	page, ok := f.pages[url]
	if !ok {
		return nil, &driven.FetchError{URL: url, StatusCode: http.StatusNotFound}
	}
	return page, nil
}

func textPage(url, text string) *domain.Page {
	return &domain.Page{URL: url, StatusCode: http.StatusOK, Text: text}
}

func feedPage(url, xml string) *domain.Page {
	return &domain.Page{URL: url, StatusCode: http.StatusOK, ContentType: "application/rss+xml", Raw: []byte(xml)}
}

func testSource() domain.SourceSettings {
	return domain.SourceSettings{
		Name:     domain.SourceSCDP,
		Kind:     domain.SourceKindPartyRoster,
		Priority: 3,
		Party:    domain.PartyDemocrat,
		URLs:     []string{rosterURL, newsURL},
		Feeds:    []string{feedURL},
	}
}

func testDiscovery() domain.DiscoverySettings {
	return domain.DiscoverySettings{
		State:             "SC",
		RequestsPerMinute: 60000,
		Bounds:            domain.DefaultChamberBounds(),
	}
}

func newTestAdapter(t *testing.T, f driven.PageFetcher) *Adapter {
	t.Helper()
	a, err := New(testSource(), testDiscovery(), f)
	require.NoError(t, err)
	adapter := a.(*Adapter)
	adapter.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return adapter
}

func fullFetcher() *fakeFetcher {
	return newFakeFetcher(map[string]*domain.Page{
		rosterURL: textPage(rosterURL, rosterPage),
		newsURL:   textPage(newsURL, "Nothing new this week."),
		feedURL:   feedPage(feedURL, newsFeed),
	})
}

func TestNew_Validation(t *testing.T) {
	noParty := testSource()
	noParty.Party = domain.PartyUnknown
	_, err := New(noParty, testDiscovery(), fullFetcher())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	noUnits := testSource()
	noUnits.URLs, noUnits.Feeds = nil, nil
	_, err = New(noUnits, testDiscovery(), fullFetcher())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(testSource(), testDiscovery(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdapter_DiscoverCandidates(t *testing.T) {
	a := newTestAdapter(t, fullFetcher())

	got, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	require.NoError(t, err)
	require.Len(t, got, 3)

	jane := got[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "SC-House-042", jane.DistrictID)
	assert.Equal(t, domain.PartyDemocrat, jane.Party)
	assert.Equal(t, domain.ConfidenceHigh, jane.PartyConfidence)
	assert.Equal(t, domain.SourceSCDP, jane.Source)
	assert.Equal(t, rosterURL, jane.SourceURL)
	// Declared on the roster, filed according to the feed.
	assert.Equal(t, domain.FilingFiled, jane.FilingStatus)
	assert.Equal(t, PatternBold, jane.Extra["pattern"])

	assert.Equal(t, "SC-Senate-003", got[1].DistrictID)
	assert.Equal(t, "SC-House-118", got[2].DistrictID)
}

func TestAdapter_ScopeFilter(t *testing.T) {
	a := newTestAdapter(t, fullFetcher())

	scopes := []domain.Scope{{State: "SC", Chamber: domain.ChamberSenate}}
	got, err := a.DiscoverCandidates(context.Background(), scopes)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tom Fox", got[0].Name)
}

func TestAdapter_PartialFailure(t *testing.T) {
	f := newFakeFetcher(map[string]*domain.Page{
		rosterURL: textPage(rosterURL, rosterPage),
	})
	a := newTestAdapter(t, f)

	got, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAdapter_AllUnitsFail(t *testing.T) {
	a := newTestAdapter(t, newFakeFetcher(nil))

	_, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	assert.ErrorIs(t, err, domain.ErrSourceFailed)
}

func TestAdapter_BadFeedIsSkipped(t *testing.T) {
	f := newFakeFetcher(map[string]*domain.Page{
		rosterURL: textPage(rosterURL, rosterPage),
		feedURL:   feedPage(feedURL, "this is not a feed"),
	})
	a := newTestAdapter(t, f)

	got, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.FilingDeclared, got[0].FilingStatus)
}

func TestAdapter_ExtractForScope(t *testing.T) {
	f := fullFetcher()
	a := newTestAdapter(t, f)
	ctx := context.Background()

	got, err := a.ExtractForScope(ctx, "SC-Senate-003")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tom Fox", got[0].Name)

	none, err := a.ExtractForScope(ctx, "SC-Senate-004")
	require.NoError(t, err)
	assert.Empty(t, none)

	// Second lookup is served from the cache.
	assert.Equal(t, 1, f.calls[rosterURL])

	_, err = a.ExtractForScope(ctx, "SC-Senate-099")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdapter_Identity(t *testing.T) {
	a := newTestAdapter(t, fullFetcher())
	assert.Equal(t, domain.SourceSCDP, a.Name())
	assert.Equal(t, 3, a.Priority())
}
