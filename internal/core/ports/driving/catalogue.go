package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// CatalogueService projects cached content and ledger state into categories.
type CatalogueService interface {
	// LoadCategories returns one category per cached raw category, in
	// declaration order. Never fails on malformed content; it yields an
	// empty list instead.
	LoadCategories(ctx context.Context) ([]domain.Category, error)

	// RulesFor returns the rules of the first category whose name matches
	// ignoring case. Unknown names yield an empty slice.
	RulesFor(ctx context.Context, name string) []domain.Rule

	// UnlockWithAd records one rewarded ad view and returns the category
	// projected from the updated ledger. Unknown names return ErrNotFound.
	UnlockWithAd(ctx context.Context, name string) (domain.Category, error)
}
