package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/architips/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/architips/internal/core/domain"
)

func TestLedger_FirstLaunchAlternates(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	require.True(t, ledger.IsFirstLaunch())

	states, err := ledger.Reconcile([]string{"A", "B", "C", "D", "E"}, true)
	require.NoError(t, err)

	assert.False(t, states["A"].Locked)
	assert.True(t, states["B"].Locked)
	assert.False(t, states["C"].Locked)
	assert.True(t, states["D"].Locked)
	assert.False(t, states["E"].Locked)

	assert.True(t, config.GetBool("A_unlocked"))
	assert.False(t, config.GetBool("B_unlocked"))
	assert.Equal(t, domain.AdsRequiredToUnlock, config.GetInt("A_adsWatched"))
	assert.Equal(t, 1, config.WriteCount())

	require.NoError(t, ledger.MarkLaunched())
	assert.False(t, ledger.IsFirstLaunch())
}

func TestLedger_LaterLaunchKeepsExistingAndLocksNew(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)

	_, err := ledger.Reconcile([]string{"A", "B"}, true)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkLaunched())

	states, err := ledger.Reconcile([]string{"New", "B", "A"}, false)
	require.NoError(t, err)

	assert.False(t, states["A"].Locked)
	assert.True(t, states["B"].Locked)
	assert.True(t, states["New"].Locked)
	assert.Equal(t, 0, states["New"].AdsWatched)

	_, persisted := config.Get("New_unlocked")
	assert.True(t, persisted)
}

func TestLedger_ReconcileIsIdempotent(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	names := []string{"A", "B", "C"}

	first, err := ledger.Reconcile(names, false)
	require.NoError(t, err)
	writes := config.WriteCount()

	second, err := ledger.Reconcile(names, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, writes, config.WriteCount())
}

func TestLedger_DuplicateNamesUseFirstPosition(t *testing.T) {
	ledger := NewLedger(memory.NewConfigStore())

	states, err := ledger.Reconcile([]string{"A", "A", "B"}, true)
	require.NoError(t, err)

	assert.False(t, states["A"].Locked)
	assert.False(t, ledger.State("A").Locked)
	assert.False(t, states["B"].Locked)
}

func TestLedger_RecordAdWatched(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	_, err := ledger.Reconcile([]string{"A", "B"}, false)
	require.NoError(t, err)

	writes := config.WriteCount()
	count, err := ledger.RecordAdWatched("B")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, ledger.State("B").Locked)
	assert.False(t, ledger.IsUnlocked("B"))
	assert.Equal(t, writes+1, config.WriteCount())

	count, err = ledger.RecordAdWatched("B")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, ledger.State("B").Locked)
	assert.True(t, ledger.IsUnlocked("B"))
	assert.Equal(t, writes+2, config.WriteCount())
}

func TestLedger_RecordAdWatched_EmptyName(t *testing.T) {
	_, err := NewLedger(memory.NewConfigStore()).RecordAdWatched("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_RecordAdWatched_WriteFailure(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	boom := errors.New("disk full")
	config.FailWrites(boom)

	count, err := ledger.RecordAdWatched("A")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count)
	assert.True(t, ledger.State("A").Locked)
}

func TestLedger_ConcurrentIncrementsAreNotLost(t *testing.T) {
	ledger := NewLedger(memory.NewConfigStore())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ledger.RecordAdWatched("A")
		}()
	}
	wg.Wait()

	assert.Equal(t, n, ledger.State("A").AdsWatched)
}

func TestLedger_StateKeepsInvariantForInconsistentEntries(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	require.NoError(t, config.SetValues(map[string]any{
		"Low_unlocked":     true,
		"Low_adsWatched":   0,
		"High_unlocked":    false,
		"High_adsWatched":  5,
		"Count_adsWatched": 2,
	}))

	low := ledger.State("Low")
	assert.False(t, low.Locked)
	assert.Equal(t, domain.AdsRequiredToUnlock, low.AdsWatched)

	high := ledger.State("High")
	assert.True(t, high.Locked)
	assert.Less(t, high.AdsWatched, domain.AdsRequiredToUnlock)

	assert.False(t, ledger.State("Count").Locked)

	for _, st := range []domain.UnlockState{low, high, ledger.State("Missing")} {
		assert.Equal(t, st.AdsWatched < domain.AdsRequiredToUnlock, st.Locked)
	}
}

func TestLedger_ReconcileWriteFailureStillReturnsStates(t *testing.T) {
	config := memory.NewConfigStore()
	config.FailWrites(errors.New("read-only"))
	ledger := NewLedger(config)

	states, err := ledger.Reconcile([]string{"A", "B"}, true)

	require.Error(t, err)
	assert.Len(t, states, 2)
	assert.False(t, states["A"].Locked)
}

func TestLedger_Reset(t *testing.T) {
	config := memory.NewConfigStore()
	ledger := NewLedger(config)
	_, err := ledger.Reconcile([]string{"A", "B"}, true)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkLaunched())
	require.NoError(t, config.Set("unrelated", "kept"))

	require.NoError(t, ledger.Reset())

	assert.True(t, ledger.IsFirstLaunch())
	assert.Equal(t, []string{"unrelated"}, config.Keys())
	assert.True(t, ledger.State("A").Locked)
}
