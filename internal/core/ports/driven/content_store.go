package driven

import "context"

// ContentStore persists the single cached content blob.
// Reads prefer a downloaded override and fall back to the bundled default.
type ContentStore interface {
	// Read returns the override bytes if present, else the bundled default.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the override atomically. Readers observe either the
	// previous bytes or the new bytes, never a partial file.
	Write(ctx context.Context, data []byte) error

	// HasOverride reports whether a downloaded override is present.
	HasOverride() bool

	// ClearOverride removes the override so reads return the bundled default.
	ClearOverride(ctx context.Context) error

	// OverridePath returns where the override lives. Empty for in-memory stores.
	OverridePath() string
}
