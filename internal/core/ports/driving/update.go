package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// UpdateService checks for and downloads remote content.
type UpdateService interface {
	// CheckVersion compares the remote version with the installed one.
	CheckVersion(ctx context.Context) UpdateTask

	// DownloadContent replaces the cached content with the remote blob.
	// Returns ErrUpdateInProgress if a download is already running.
	DownloadContent(ctx context.Context) (UpdateTask, error)
}

// UpdateTask is a running update operation.
// Exactly one terminal event is emitted, after which Events is closed.
type UpdateTask interface {
	// ID uniquely identifies the task.
	ID() string

	// Events streams state transitions in order.
	Events() <-chan domain.UpdateEvent

	// Done is closed once the terminal event has been produced.
	Done() <-chan struct{}

	// Result returns the terminal event. Valid after Done is closed.
	Result() domain.UpdateEvent

	// Wait blocks until the task finishes or ctx is done.
	Wait(ctx context.Context) (domain.UpdateEvent, error)

	// Cancel aborts the task. The terminal event is then an error.
	Cancel()
}
