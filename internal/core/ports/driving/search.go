package driving

import (
	"context"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// SearchService filters the catalogue by a free-text query.
type SearchService interface {
	// Search returns categories whose name or rules contain the query,
	// ignoring case. Each category carries only its matching rules.
	// An empty query returns an empty list.
	Search(ctx context.Context, query string) ([]domain.Category, error)
}
