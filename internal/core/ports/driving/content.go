package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// ContentService administers the cached content blob.
type ContentService interface {
	// Categories returns the raw categories currently cached.
	Categories(ctx context.Context) []domain.RawCategory

	// HasOverride reports whether downloaded or imported content is in use.
	HasOverride() bool

	// Import validates data and installs it as the override.
	Import(ctx context.Context, data []byte) (int, error)

	// Revert removes the override so the bundled content is used again.
	Revert(ctx context.Context) error

	// Sorted encodes the cached content reordered to follow order.
	Sorted(ctx context.Context, order []string) ([]byte, error)
}
