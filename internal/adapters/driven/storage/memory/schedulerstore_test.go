package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/architips/internal/core/domain"
)

func TestSchedulerStore_Tasks(t *testing.T) {
	ctx := context.Background()
	store := NewSchedulerStore()

	task, err := store.GetTask(ctx, domain.TaskIDVersionCheck)
	require.NoError(t, err)
	assert.Nil(t, task)

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: domain.TaskIDVersionCheck, Enabled: true}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: domain.TaskIDContentRefresh}))
	assert.ErrorIs(t, store.SaveTask(ctx, nil), domain.ErrInvalidInput)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.TaskIDContentRefresh, tasks[0].ID)

	require.NoError(t, store.DeleteTask(ctx, domain.TaskIDContentRefresh))
	tasks, err = store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestSchedulerStore_History(t *testing.T) {
	ctx := context.Background()
	store := NewSchedulerStore()
	start := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordRun(ctx, &domain.TaskRun{
			TaskID:    domain.TaskIDVersionCheck,
			StartedAt: start.Add(time.Duration(i) * time.Minute),
			Outcome:   domain.UpdateUpToDate,
		}))
	}

	runs, err := store.History(ctx, domain.TaskIDVersionCheck, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))

	require.NoError(t, store.PruneHistory(ctx, 3))
	runs, err = store.History(ctx, domain.TaskIDVersionCheck, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
