// Package driving defines what the CLI and MCP adapters may ask of the core:
// browsing categories, unlocking them, searching, favourites, updates,
// content administration, settings and the background scheduler.
//
// Every interface here is implemented by a type in internal/core/services.
package driving
