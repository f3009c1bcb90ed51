package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

func TestRunStore_Empty(t *testing.T) {
	store := NewRunStore()

	latest, err := store.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRunStore_OrderAndLimit(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveRun(ctx, &domain.DiscoveryRun{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Status:    domain.RunStatusCompleted,
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunStore_SaveReplaces(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	run := &domain.DiscoveryRun{ID: "a", Status: domain.RunStatusFailed}
	require.NoError(t, store.SaveRun(ctx, run))

	run.Status = domain.RunStatusCompleted
	require.NoError(t, store.SaveRun(ctx, run))

	runs, _ := store.ListRuns(ctx, 0)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusCompleted, runs[0].Status)
}
