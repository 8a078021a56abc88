package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many runs are kept per task.
const historyRetention = 100

var taskNames = map[string]string{
	domain.TaskIDVersionCheck:   "Version Check",
	domain.TaskIDContentRefresh: "Content Refresh",
}

// Scheduler runs the version check and content refresh in the background
// and persists their state so intervals survive restarts.
type Scheduler struct {
	config  domain.SchedulerConfig
	store   driven.SchedulerStore
	updater driving.UpdateService
	now     func() time.Time

	mu      sync.Mutex
	running bool
	active  map[string]bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	updater driving.UpdateService,
) *Scheduler {
	return &Scheduler{
		config:  config,
		store:   store,
		updater: updater,
		now:     time.Now,
		active:  make(map[string]bool),
	}
}

// Start runs due tasks until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		logger.Debug("scheduler: disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: initialising tasks: %v", err)
	}

	return s.run(ctx, stopCh)
}

// Stop gracefully shuts down the scheduler and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Tasks returns the persisted task states.
func (s *Scheduler) Tasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	return s.store.ListTasks(ctx)
}

// History returns recent runs of a task, newest first.
func (s *Scheduler) History(ctx context.Context, taskID string, limit int) ([]domain.TaskRun, error) {
	return s.store.History(ctx, taskID, limit)
}

// RunNow executes a task immediately and waits for it.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (domain.TaskRun, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return domain.TaskRun{}, err
	}
	if task == nil {
		if _, known := taskNames[taskID]; !known {
			return domain.TaskRun{}, domain.ErrNotFound
		}
		task = s.newTask(taskID, s.config.Task(taskID))
	}
	return s.execute(ctx, task), nil
}

func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for id := range taskNames {
		if err := s.ensureTask(ctx, id, s.config.Task(id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) newTask(id string, cfg domain.TaskConfig) *domain.ScheduledTask {
	return &domain.ScheduledTask{
		ID:       id,
		Name:     taskNames[id],
		Interval: cfg.Interval,
		Enabled:  cfg.Enabled,
		NextRun:  s.now().Add(cfg.Interval),
	}
}

// ensureTask creates the task or applies a changed configuration.
func (s *Scheduler) ensureTask(ctx context.Context, id string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = s.newTask(id, cfg)
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = s.now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	s.runDue(ctx)

	tick := s.config.Tick
	if tick <= 0 {
		tick = time.Minute
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: listing tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := tasks[i]
		if !task.IsDue(now) || !s.claim(task.ID) {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.release(task.ID)
			s.execute(ctx, &task)
		}()
	}
}

// claim prevents a slow task from overlapping its next tick.
func (s *Scheduler) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[id] {
		return false
	}
	s.active[id] = true
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) domain.TaskRun {
	run := domain.TaskRun{TaskID: task.ID, StartedAt: s.now()}

	ev := s.runUpdate(ctx, task.ID)
	run.EndedAt = s.now()
	run.Outcome = ev.State
	switch ev.State {
	case domain.UpdateAvailable:
		run.Detail = ev.LatestVersion
	case domain.UpdateContentUpdated:
		run.Detail = strconv.Itoa(ev.Categories) + " categories"
	case domain.UpdateError:
		run.Detail = ev.Reason
	}

	task.LastRun = run.StartedAt
	task.LastOutcome = run.Outcome
	task.NextRun = run.EndedAt.Add(task.Interval)
	if run.Succeeded() {
		task.LastError = ""
		task.LastSuccess = run.EndedAt
	} else {
		task.LastError = run.Detail
	}

	if err := s.store.SaveTask(ctx, task); err != nil {
		logger.Warn("scheduler: saving task %s: %v", task.ID, err)
	}
	if err := s.store.RecordRun(ctx, &run); err != nil {
		logger.Warn("scheduler: recording run for %s: %v", task.ID, err)
	}
	if err := s.store.PruneHistory(ctx, historyRetention); err != nil {
		logger.Warn("scheduler: pruning history: %v", err)
	}

	logger.Debug("scheduler: %s finished: %s", task.ID, run.Outcome)
	return run
}

func (s *Scheduler) runUpdate(ctx context.Context, taskID string) domain.UpdateEvent {
	var task driving.UpdateTask
	switch taskID {
	case domain.TaskIDVersionCheck:
		task = s.updater.CheckVersion(ctx)
	case domain.TaskIDContentRefresh:
		var err error
		task, err = s.updater.DownloadContent(ctx)
		if err != nil {
			return errorEvent(err)
		}
	default:
		return errorEvent(domain.ErrNotFound)
	}

	ev, err := task.Wait(ctx)
	if err != nil {
		task.Cancel()
		return errorEvent(err)
	}
	return ev
}
