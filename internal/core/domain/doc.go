// Package domain defines the core business entities for Architips.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawCategory: A category exactly as it appears in the content blob
//   - Snapshot: One immutable, parsed content blob
//   - Category: A display-ready category with its lock state
//   - Rule: A single rule text, annotated with favourite status
//   - UpdateEvent: A state transition emitted by the remote updater
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
