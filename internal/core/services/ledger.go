package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure Ledger implements the interface.
var _ driving.LedgerService = (*Ledger)(nil)

// Ledger key layout.
const (
	keyFirstLaunchDone = "first_launch_done"
	suffixUnlocked     = "_unlocked"
	suffixAdsWatched   = "_adsWatched"
)

func unlockedKey(name string) string   { return name + suffixUnlocked }
func adsWatchedKey(name string) string { return name + suffixAdsWatched }

// Ledger persists per-category unlock state in a key-value store.
// Increments are serialised per category; Reconcile and Reset exclude
// all increments while they run.
type Ledger struct {
	store driven.ConfigStore

	batch sync.RWMutex

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger creates a ledger over the store.
func NewLedger(store driven.ConfigStore) *Ledger {
	return &Ledger{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) lockFor(name string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	return m
}

// Reconcile ensures every name has an entry and returns all states.
// On first launch, even positions are unlocked and odd ones locked; unlocked
// entries are seeded with enough views to satisfy the unlock threshold.
// Later, unseen names are stored as locked with zero views and existing
// entries are left untouched. States are returned even if persisting fails.
func (l *Ledger) Reconcile(names []string, firstLaunch bool) (map[string]domain.UnlockState, error) {
	l.batch.Lock()
	defer l.batch.Unlock()

	states := make(map[string]domain.UnlockState, len(names))
	values := make(map[string]any)

	for i, name := range names {
		if _, done := states[name]; done {
			continue
		}

		if !firstLaunch {
			if st, ok := l.stored(name); ok {
				states[name] = st
				continue
			}
		}

		st := domain.NewUnlockState(0)
		if firstLaunch && i%2 == 0 {
			st = domain.NewUnlockState(domain.AdsRequiredToUnlock)
		}
		states[name] = st
		values[unlockedKey(name)] = !st.Locked
		values[adsWatchedKey(name)] = st.AdsWatched
	}

	if len(values) == 0 {
		return states, nil
	}

	logger.Debug("ledger: seeding %d entries (first launch: %t)", len(values)/2, firstLaunch)
	if err := l.store.SetValues(values); err != nil {
		return states, fmt.Errorf("seeding ledger: %w", err)
	}
	return states, nil
}

// IsFirstLaunch reports whether first-launch seeding has not happened yet.
func (l *Ledger) IsFirstLaunch() bool {
	return !l.store.GetBool(keyFirstLaunchDone)
}

// MarkLaunched records that first-launch seeding happened.
func (l *Ledger) MarkLaunched() error {
	if err := l.store.Set(keyFirstLaunchDone, true); err != nil {
		return fmt.Errorf("marking first launch: %w", err)
	}
	return nil
}

// RecordAdWatched adds one view and returns the new count. Reaching the
// threshold sets the unlock flag in the same write.
func (l *Ledger) RecordAdWatched(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty category name", domain.ErrInvalidInput)
	}

	l.batch.RLock()
	defer l.batch.RUnlock()

	m := l.lockFor(name)
	m.Lock()
	defer m.Unlock()

	current := l.State(name)
	count := current.AdsWatched + 1
	unlocked := count >= domain.AdsRequiredToUnlock

	err := l.store.SetValues(map[string]any{
		adsWatchedKey(name): count,
		unlockedKey(name):   unlocked,
	})
	if err != nil {
		return current.AdsWatched, fmt.Errorf("recording ad view for %q: %w", name, err)
	}

	logger.Debug("ledger: %q watched %d/%d", name, count, domain.AdsRequiredToUnlock)
	return count, nil
}

// IsUnlocked reports the stored unlock flag.
func (l *Ledger) IsUnlocked(name string) bool {
	return l.store.GetBool(unlockedKey(name))
}

// State returns the unlock state for a name. Names without an entry are
// locked with zero views.
func (l *Ledger) State(name string) domain.UnlockState {
	st, _ := l.stored(name)
	return st
}

// stored derives a state that always satisfies
// Locked == (AdsWatched < AdsRequiredToUnlock) while keeping the stored
// flag as the source of truth for Locked.
func (l *Ledger) stored(name string) (domain.UnlockState, bool) {
	_, hasFlag := l.store.Get(unlockedKey(name))
	_, hasCount := l.store.Get(adsWatchedKey(name))
	if !hasFlag && !hasCount {
		return domain.NewUnlockState(0), false
	}

	watched := max(l.store.GetInt(adsWatchedKey(name)), 0)
	if !hasFlag {
		return domain.NewUnlockState(watched), true
	}

	if l.store.GetBool(unlockedKey(name)) {
		return domain.UnlockState{
			Locked:     false,
			AdsWatched: max(watched, domain.AdsRequiredToUnlock),
		}, true
	}
	return domain.UnlockState{
		Locked:     true,
		AdsWatched: min(watched, domain.AdsRequiredToUnlock-1),
	}, true
}

// Reset removes every unlock entry and the first-launch flag.
func (l *Ledger) Reset() error {
	l.batch.Lock()
	defer l.batch.Unlock()

	var keys []string
	for _, k := range l.store.Keys() {
		if k == keyFirstLaunchDone ||
			strings.HasSuffix(k, suffixUnlocked) ||
			strings.HasSuffix(k, suffixAdsWatched) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.store.Delete(keys...); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	logger.Info("ledger: reset %d keys", len(keys))
	return nil
}
