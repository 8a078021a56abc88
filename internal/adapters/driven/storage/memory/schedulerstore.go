package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
)

// Ensure SchedulerStore implements the interface.
var _ driven.SchedulerStore = (*SchedulerStore)(nil)

// SchedulerStore is an in-memory implementation of driven.SchedulerStore.
type SchedulerStore struct {
	mu    sync.RWMutex
	tasks map[string]domain.ScheduledTask
	runs  map[string][]domain.TaskRun
}

// NewSchedulerStore creates an empty scheduler store.
func NewSchedulerStore() *SchedulerStore {
	return &SchedulerStore{
		tasks: make(map[string]domain.ScheduledTask),
		runs:  make(map[string][]domain.TaskRun),
	}
}

// GetTask returns a copy of the task, or nil if unknown.
func (s *SchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

// ListTasks returns all tasks ordered by ID.
func (s *SchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]domain.ScheduledTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// SaveTask creates or updates a task.
func (s *SchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	if task == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// DeleteTask removes a task and its history.
func (s *SchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
	delete(s.runs, taskID)
	return nil
}

// RecordRun appends a run.
func (s *SchedulerStore) RecordRun(_ context.Context, run *domain.TaskRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.TaskID] = append(s.runs[run.TaskID], *run)
	return nil
}

// History returns the newest runs first.
func (s *SchedulerStore) History(_ context.Context, taskID string, limit int) ([]domain.TaskRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := s.runs[taskID]
	out := make([]domain.TaskRun, 0, min(limit, len(runs)))
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

// PruneHistory keeps the newest 'keep' runs per task.
func (s *SchedulerStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, runs := range s.runs {
		if len(runs) > keep {
			s.runs[id] = append([]domain.TaskRun(nil), runs[len(runs)-keep:]...)
		}
	}
	return nil
}
