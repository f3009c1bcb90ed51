package driving

import (
	"context"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// Scheduler manages background tasks like scheduled candidate discovery.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// Reconfigure applies a new configuration to a running scheduler.
	Reconfigure(ctx context.Context, config domain.SchedulerConfig) error

	// Tasks lists the scheduled tasks.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// History lists recent executions of a task, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
