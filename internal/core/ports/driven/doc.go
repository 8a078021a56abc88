// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentStore: The single cached content blob (override file or bundled default)
//   - ConfigStore: Key-value settings, also backing the unlock ledger
//   - RemoteSource: Version and content endpoints
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FavoriteStore: Without it, no rule is annotated as a favourite.
//   - SchedulerStore: Without it, background tasks are not run.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
