package driven

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// SchedulerStore persists background task state and run history.
type SchedulerStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// DeleteTask removes a task and its history.
	DeleteTask(ctx context.Context, taskID string) error

	// RecordRun appends a run to the task's history.
	RecordRun(ctx context.Context, run *domain.TaskRun) error

	// History returns the most recent runs for a task, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskRun, error)

	// PruneHistory keeps only the most recent 'keep' runs per task.
	PruneHistory(ctx context.Context, keep int) error
}
