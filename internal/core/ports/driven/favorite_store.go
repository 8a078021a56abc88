package driven

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// FavoriteStore persists favourited rules keyed by (category, rule text).
type FavoriteStore interface {
	// Insert adds a favourite. Inserting an existing key is a no-op.
	Insert(ctx context.Context, key domain.FavoriteKey) error

	// DeleteByCategoryAndText removes a favourite. Missing keys are ignored.
	DeleteByCategoryAndText(ctx context.Context, category, text string) error

	// GetAll returns every favourite in insertion order.
	GetAll(ctx context.Context) ([]domain.FavoriteKey, error)
}
