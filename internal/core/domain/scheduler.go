package domain

import "time"

// Task IDs for the built-in background tasks.
const (
	// TaskIDVersionCheck polls the remote version endpoint.
	TaskIDVersionCheck = "version-check"

	// TaskIDContentRefresh downloads and commits fresh content.
	TaskIDContentRefresh = "content-refresh"
)

// ScheduledTask is a recurring background update task and its persisted state.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time

	// LastOutcome is the terminal update state of the last run.
	LastOutcome UpdateState

	// LastError holds the failure reason of the last run, if any.
	LastError string
}

// IsDue reports whether the task should run at now.
func (t *ScheduledTask) IsDue(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	return t.NextRun.IsZero() || !t.NextRun.After(now)
}

// TaskRun records one execution of a scheduled task.
type TaskRun struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time

	// Outcome is the terminal update state reached.
	Outcome UpdateState

	// Detail is the latest version, the category count or the failure reason,
	// depending on Outcome.
	Detail string
}

// Succeeded reports whether the run ended without an error.
func (r TaskRun) Succeeded() bool {
	return r.Outcome != UpdateError && r.Outcome != ""
}

// TaskConfig configures a single background task.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// SchedulerConfig configures the background update scheduler.
type SchedulerConfig struct {
	// Enabled is the master switch.
	Enabled bool

	// Tick is how often due tasks are looked for.
	Tick time.Duration

	// Tasks holds per-task configuration keyed by task ID.
	Tasks map[string]TaskConfig
}

// Task returns the configuration for a task, or a disabled zero value.
func (c SchedulerConfig) Task(id string) TaskConfig {
	return c.Tasks[id]
}

// DefaultSchedulerConfig checks the version hourly and refreshes content daily.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		Tick:    time.Minute,
		Tasks: map[string]TaskConfig{
			TaskIDVersionCheck:   {Enabled: true, Interval: time.Hour},
			TaskIDContentRefresh: {Enabled: true, Interval: 24 * time.Hour},
		},
	}
}
