package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// Scheduler runs the background version check and content refresh.
type Scheduler interface {
	// Start runs scheduled tasks.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// Tasks returns the persisted state of all tasks.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// History returns recent runs of a task, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskRun, error)

	// RunNow executes a task immediately and waits for it.
	// Unknown task IDs return ErrNotFound.
	RunNow(ctx context.Context, taskID string) (domain.TaskRun, error)
}
