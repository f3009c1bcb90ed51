package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

func stored(name, district string) *domain.StoredCandidate {
	return &domain.StoredCandidate{
		Name:       name,
		DistrictID: district,
		Party:      domain.PartyDemocrat,
		Sources:    []string{"scdp"},
		SourceURLs: map[string]string{"scdp": "https://scdp.example/candidates"},
	}
}

func TestCandidateStore_UpsertAndRead(t *testing.T) {
	store := NewCandidateStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{
		stored("Ann Lee", "SC-Senate-012"),
		stored("John Smith", "SC-House-042"),
	}))

	state, err := store.ReadCurrentState(ctx)
	require.NoError(t, err)
	assert.Len(t, state, 2)

	got := state[domain.KeyOf("ann lee", "SC-Senate-012")]
	require.NotNil(t, got)
	assert.Equal(t, "Ann Lee", got.Name)
}

func TestCandidateStore_ReturnsCopies(t *testing.T) {
	store := NewCandidateStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{stored("Ann Lee", "SC-Senate-012")}))

	state, err := store.ReadCurrentState(ctx)
	require.NoError(t, err)
	for _, c := range state {
		c.Sources[0] = "mutated"
		c.SourceURLs["x"] = "y"
	}

	list, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"scdp"}, list[0].Sources)
	assert.NotContains(t, list[0].SourceURLs, "x")
}

func TestCandidateStore_ListFilterAndOrder(t *testing.T) {
	store := NewCandidateStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{
		stored("Zed Young", "SC-House-042"),
		stored("Amy Adams", "SC-House-042"),
		stored("Bob Brown", "SC-House-001"),
	}))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Bob Brown", all[0].Name)
	assert.Equal(t, "Amy Adams", all[1].Name)

	one, err := store.List(ctx, "SC-House-042")
	require.NoError(t, err)
	assert.Len(t, one, 2)
}

func TestCandidateStore_SetLocked(t *testing.T) {
	store := NewCandidateStore()
	ctx := context.Background()
	c := stored("Ann Lee", "SC-Senate-012")
	c.FirstSeen = time.Now()
	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{c}))

	require.NoError(t, store.SetLocked(ctx, c.Key(), true))
	list, _ := store.List(ctx, "")
	assert.True(t, list[0].Locked)

	err := store.SetLocked(ctx, domain.KeyOf("Nobody", "SC-Senate-012"), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCandidateStore_UpsertKeepsLock(t *testing.T) {
	store := NewCandidateStore()
	ctx := context.Background()
	c := stored("Ann Lee", "SC-Senate-012")
	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{c}))

	state, _ := store.ReadCurrentState(ctx)
	snapshot := state[c.Key()]
	require.NoError(t, store.SetLocked(ctx, c.Key(), true))
	require.NoError(t, store.Upsert(ctx, []*domain.StoredCandidate{snapshot, nil}))

	list, _ := store.List(ctx, "")
	require.Len(t, list, 1)
	assert.True(t, list[0].Locked)
}
