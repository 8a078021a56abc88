package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

// eventBuffer fits Checking, every distinct percentage 0-100 and the
// terminal event, so the producer never blocks on a slow consumer.
const eventBuffer = 104

// Ensure updateTask implements the interface.
var _ driving.UpdateTask = (*updateTask)(nil)

type updateTask struct {
	id     string
	events chan domain.UpdateEvent
	done   chan struct{}
	cancel context.CancelFunc

	mu           sync.Mutex
	result       domain.UpdateEvent
	lastProgress int
}

func newUpdateTask(cancel context.CancelFunc) *updateTask {
	return &updateTask{
		id:           uuid.NewString(),
		events:       make(chan domain.UpdateEvent, eventBuffer),
		done:         make(chan struct{}),
		cancel:       cancel,
		lastProgress: -1,
	}
}

func (t *updateTask) ID() string                         { return t.id }
func (t *updateTask) Events() <-chan domain.UpdateEvent { return t.events }
func (t *updateTask) Done() <-chan struct{}             { return t.done }
func (t *updateTask) Cancel()                           { t.cancel() }

func (t *updateTask) Result() domain.UpdateEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *updateTask) Wait(ctx context.Context) (domain.UpdateEvent, error) {
	select {
	case <-t.done:
		return t.Result(), nil
	case <-ctx.Done():
		return domain.UpdateEvent{}, ctx.Err()
	}
}

func (t *updateTask) emit(ev domain.UpdateEvent) {
	t.events <- ev
}

// progress emits a DownloadingContent event when the percentage advances.
func (t *updateTask) progress(percent int) {
	t.mu.Lock()
	if percent <= t.lastProgress {
		t.mu.Unlock()
		return
	}
	t.lastProgress = percent
	t.mu.Unlock()
	t.emit(domain.UpdateEvent{State: domain.UpdateDownloadingContent, Progress: percent})
}

func (t *updateTask) finish(ev domain.UpdateEvent) {
	t.mu.Lock()
	t.result = ev
	t.mu.Unlock()

	t.events <- ev
	close(t.events)
	close(t.done)
	t.cancel()
}

func errorEvent(err error) domain.UpdateEvent {
	reason := err.Error()
	if errors.Is(err, context.Canceled) {
		reason = "cancelled"
	}
	return domain.UpdateEvent{State: domain.UpdateError, Reason: reason, Err: err}
}
