package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = `id, started_at, completed_at, status, trigger_name, total_raw, total_deduplicated,
	conflict_count, coverage, source_stats, source_errors, sync_summary, error`

// SaveRun creates or replaces a run by ID.
func (s *runStore) SaveRun(ctx context.Context, run *domain.DiscoveryRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	stats, err := marshalJSON(run.SourceStats, "{}")
	if err != nil {
		return fmt.Errorf("marshaling source stats: %w", err)
	}
	errs, err := marshalJSON(run.SourceErrors, "{}")
	if err != nil {
		return fmt.Errorf("marshaling source errors: %w", err)
	}
	var sync any
	if run.Sync != nil {
		data, err := json.Marshal(run.Sync)
		if err != nil {
			return fmt.Errorf("marshaling sync summary: %w", err)
		}
		sync = string(data)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO discovery_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			status = excluded.status,
			trigger_name = excluded.trigger_name,
			total_raw = excluded.total_raw,
			total_deduplicated = excluded.total_deduplicated,
			conflict_count = excluded.conflict_count,
			coverage = excluded.coverage,
			source_stats = excluded.source_stats,
			source_errors = excluded.source_errors,
			sync_summary = excluded.sync_summary,
			error = excluded.error
	`, run.ID, run.StartedAt.UTC().Format(timeLayout), formatNullableTime(run.CompletedAt),
		string(run.Status), run.Trigger, run.TotalRaw, run.TotalDeduplicated,
		run.ConflictCount, run.Coverage, stats, errs, sync, nullString(run.Error))
	if err != nil {
		return fmt.Errorf("saving discovery run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil if none exists.
func (s *runStore) LatestRun(ctx context.Context) (*domain.DiscoveryRun, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM discovery_runs ORDER BY started_at DESC LIMIT 1")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns recent runs, most recent first. A limit of zero or less
// returns every run.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.DiscoveryRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM discovery_runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying discovery runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.DiscoveryRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating discovery runs: %w", err)
	}
	return runs, nil
}

func scanRun(row rowScanner) (*domain.DiscoveryRun, error) {
	var run domain.DiscoveryRun
	var startedAt, status, stats, errs string
	var completedAt, sync, runErr sql.NullString

	err := row.Scan(&run.ID, &startedAt, &completedAt, &status, &run.Trigger,
		&run.TotalRaw, &run.TotalDeduplicated, &run.ConflictCount, &run.Coverage,
		&stats, &errs, &sync, &runErr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning discovery run: %w", err)
	}

	run.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
	run.CompletedAt = parseNullableTime(completedAt)
	run.Status = domain.RunStatus(status)
	if runErr.Valid {
		run.Error = runErr.String
	}
	if err := json.Unmarshal([]byte(stats), &run.SourceStats); err != nil {
		return nil, fmt.Errorf("unmarshaling source stats: %w", err)
	}
	if err := json.Unmarshal([]byte(errs), &run.SourceErrors); err != nil {
		return nil, fmt.Errorf("unmarshaling source errors: %w", err)
	}
	if sync.Valid && sync.String != "" {
		var summary domain.SyncSummary
		if err := json.Unmarshal([]byte(sync.String), &summary); err != nil {
			return nil, fmt.Errorf("unmarshaling sync summary: %w", err)
		}
		run.Sync = &summary
	}
	return &run, nil
}
