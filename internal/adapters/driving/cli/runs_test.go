package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

func TestRunsCmd(t *testing.T) {
	started := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	setupServices(t, &mockDiscoveryService{runs: []domain.DiscoveryRun{
		{
			ID: "run-2", StartedAt: started, CompletedAt: started.Add(3 * time.Minute),
			Status: domain.RunStatusPartial, Trigger: "scheduled", TotalDeduplicated: 42,
			Coverage: 24.7, ConflictCount: 2,
			SourceErrors: map[string]string{"scgop": "503", "scdp": "timeout"},
			Sync:         &domain.SyncSummary{Created: 5, Updated: 1},
		},
		{
			ID: "run-1", StartedAt: started.Add(-time.Hour), Status: domain.RunStatusFailed,
			Error: "no sources configured",
		},
	}}, nil)

	out, err := execute(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "scheduled")
	assert.Contains(t, out, "3m0s")
	assert.Contains(t, out, "24.7%")
	assert.Contains(t, out, "+5 ~1")
	assert.Contains(t, out, "scdp, scgop")
	assert.Contains(t, out, "no sources configured")
}

func TestRunsCmd_Empty(t *testing.T) {
	setupServices(t, &mockDiscoveryService{}, nil)

	out, err := execute(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "No discovery runs recorded.")
}

func TestFailures(t *testing.T) {
	assert.Equal(t, "fatal", failures(map[string]string{"a": "x"}, "fatal"))
	assert.Equal(t, "a, b", failures(map[string]string{"b": "x", "a": "y"}, ""))
	assert.Equal(t, "", failures(nil, ""))
}
