package driving

import "github.com/custodia-labs/architips/internal/core/domain"

// LedgerService owns per-category unlock state.
type LedgerService interface {
	// Reconcile ensures every name has a ledger entry and returns the
	// state of each. On first launch odd indices are locked and the rest
	// unlocked; afterwards unseen names default to locked.
	Reconcile(names []string, firstLaunch bool) (map[string]domain.UnlockState, error)

	// IsFirstLaunch reports whether categories have never been reconciled.
	IsFirstLaunch() bool

	// MarkLaunched records that first-launch seeding happened.
	MarkLaunched() error

	// RecordAdWatched increments the view count and returns the new count.
	RecordAdWatched(name string) (int, error)

	// IsUnlocked reports the stored unlock flag.
	IsUnlocked(name string) bool

	// State returns the unlock state for a name.
	State(name string) domain.UnlockState

	// Reset clears all unlock state and the first-launch flag.
	Reset() error
}
