package driven

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// SchedulerStore keeps scheduled discovery state across daemon restarts,
// so a run that was due while the daemon was down fires on the next start.
type SchedulerStore interface {
	// GetTask returns the task with the given ID, or nil and no error
	// when it has never been scheduled.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns every stored task ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask inserts or replaces a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// DeleteTask unschedules a task. Its history is kept.
	DeleteTask(ctx context.Context, taskID string) error

	// RecordResult appends one execution to the task history.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns up to limit results for a task, newest first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps the newest keep results per task and drops the rest.
	PruneHistory(ctx context.Context, keep int) error
}
