package ballotpedia

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

type fakeFetcher struct {
	pages map[string]string
	calls map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.Page, error) {
	f.calls[url]++
	text, ok := f.pages[url]
	if !ok {
		return nil, &driven.FetchError{URL: url, StatusCode: http.StatusNotFound}
	}
	return &domain.Page{URL: url, StatusCode: http.StatusOK, Text: text}, nil
}

func testSource() domain.SourceSettings {
	return domain.SourceSettings{
		Name:     domain.SourceBallotpedia,
		Kind:     domain.SourceKindDirectory,
		Priority: 2,
		URLTemplates: map[domain.Chamber]string{
			domain.ChamberHouse:  "https://dir.test/house/{n}",
			domain.ChamberSenate: "https://dir.test/senate/{nnn}",
		},
	}
}

func testDiscovery() domain.DiscoverySettings {
	return domain.DiscoverySettings{
		State:             "SC",
		ElectionYear:      2026,
		RequestsPerMinute: 60000,
		Bounds:            domain.ChamberBounds{domain.ChamberHouse: 3, domain.ChamberSenate: 2},
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

func TestExpandTemplate(t *testing.T) {
	assert.Equal(t, "https://x/7", ExpandTemplate("https://x/{n}", 7))
	assert.Equal(t, "https://x/007", ExpandTemplate("https://x/{nnn}", 7))
	assert.Equal(t, "https://x/124/124", ExpandTemplate("https://x/{nnn}/{n}", 124))
	assert.Empty(t, ExpandTemplate("", 1))
}

func TestNew_RequiresTemplatePerChamber(t *testing.T) {
	src := testSource()
	delete(src.URLTemplates, domain.ChamberSenate)

	_, err := New(src, testDiscovery(), newFakeFetcher(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(testSource(), testDiscovery(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdapter_DiscoverCandidates(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		"https://dir.test/house/1":    "## 2026\n- **Jane Doe** (Democratic Party) Incumbent\n",
		"https://dir.test/house/2":    "## 2024\n- **Gone Away** (R)\n",
		"https://dir.test/senate/002": "## 2026\n- **Ann Lee** (Republican Party)\n",
	})
	a := newTestAdapter(t, f)

	got, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Jane Doe", got[0].Name)
	assert.Equal(t, "SC-House-001", got[0].DistrictID)
	assert.Equal(t, domain.PartyDemocrat, got[0].Party)
	assert.Equal(t, domain.ConfidenceMedium, got[0].PartyConfidence)
	assert.Equal(t, domain.SourceBallotpedia, got[0].Source)
	assert.Equal(t, "https://dir.test/house/1", got[0].SourceURL)
	assert.True(t, got[0].Incumbent)

	assert.Equal(t, "SC-Senate-002", got[1].DistrictID)
	assert.Equal(t, "https://dir.test/senate/002", got[1].SourceURL)

	// Five pages attempted, each once.
	assert.Len(t, f.calls, 5)
}

func TestAdapter_AllPagesFail(t *testing.T) {
	a := newTestAdapter(t, newFakeFetcher(nil))

	got, err := a.DiscoverCandidates(context.Background(), domain.ScopesFor("SC", testDiscovery().Bounds))
	assert.ErrorIs(t, err, domain.ErrSourceFailed)
	assert.Nil(t, got)
}

func TestAdapter_ScopeSubset(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		"https://dir.test/house/3": "## 2026\n- **Sam Hill** (I)\n",
	})
	a := newTestAdapter(t, f)

	scopes := []domain.Scope{{State: "SC", Chamber: domain.ChamberHouse, Districts: []int{3, 99}}}
	got, err := a.DiscoverCandidates(context.Background(), scopes)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.PartyIndependent, got[0].Party)
	assert.Len(t, f.calls, 1)
}

func TestAdapter_ExtractForScope_UsesCache(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		"https://dir.test/house/1": "## 2026\n- **Jane Doe** (D)\n",
	})
	a := newTestAdapter(t, f)
	ctx := context.Background()

	first, err := a.ExtractForScope(ctx, "SC-House-001")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := a.ExtractForScope(ctx, "SC-House-001")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls["https://dir.test/house/1"])
}

func TestAdapter_ExtractForScope_InvalidDistrict(t *testing.T) {
	a := newTestAdapter(t, newFakeFetcher(nil))

	_, err := a.ExtractForScope(context.Background(), "SC-House-004")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdapter_CancelledBeforeStart(t *testing.T) {
	a := newTestAdapter(t, newFakeFetcher(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.DiscoverCandidates(ctx, domain.ScopesFor("SC", testDiscovery().Bounds))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdapter_Identity(t *testing.T) {
	a := newTestAdapter(t, newFakeFetcher(nil))
	assert.Equal(t, domain.SourceBallotpedia, a.Name())
	assert.Equal(t, 2, a.Priority())
	assert.Equal(t, "2026", a.heading)
}
