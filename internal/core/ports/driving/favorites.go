package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// FavoritesService manages favourited rules.
type FavoritesService interface {
	// Toggle flips the favourite status of a rule and returns the new status.
	Toggle(ctx context.Context, key domain.FavoriteKey) (bool, error)

	// Add marks a rule as favourite.
	Add(ctx context.Context, key domain.FavoriteKey) error

	// Remove clears a rule's favourite status.
	Remove(ctx context.Context, key domain.FavoriteKey) error

	// List returns all favourites in insertion order.
	List(ctx context.Context) ([]domain.FavoriteKey, error)
}
