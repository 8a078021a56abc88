// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The content pipeline is:
//
//	RemoteSource -> Updater -> ContentStore -> ContentCache -> CatalogueService
//
// CatalogueService combines cached content with the Ledger's unlock state and
// the favourites store. SearchService reads the catalogue and keeps its own
// per-category rule cache, cleared whenever the content cache is invalidated.
package services
