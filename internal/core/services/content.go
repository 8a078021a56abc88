package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure ContentService implements the interface.
var _ driving.ContentService = (*ContentService)(nil)

// ContentService imports, reverts and reorders the cached content.
type ContentService struct {
	store driven.ContentStore
	cache *ContentCache
}

// NewContentService creates a content service.
func NewContentService(store driven.ContentStore, cache *ContentCache) *ContentService {
	return &ContentService{store: store, cache: cache}
}

// Categories returns the cached raw categories.
func (s *ContentService) Categories(ctx context.Context) []domain.RawCategory {
	return s.cache.Get(ctx).Categories()
}

// HasOverride reports whether the override is in use.
func (s *ContentService) HasOverride() bool {
	return s.store.HasOverride()
}

// Import installs data as the override after checking it parses to a
// non-empty category list. Returns the number of categories.
func (s *ContentService) Import(ctx context.Context, data []byte) (int, error) {
	categories, err := domain.ParseContent(data)
	if err != nil {
		return 0, err
	}
	if len(categories) == 0 {
		return 0, fmt.Errorf("%w: content has no categories", domain.ErrParse)
	}
	if err := s.store.Write(ctx, data); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	s.cache.Invalidate()
	logger.Info("content: imported %d categories", len(categories))
	return len(categories), nil
}

// Revert removes the override and invalidates the cache.
func (s *ContentService) Revert(ctx context.Context) error {
	if err := s.store.ClearOverride(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	s.cache.Invalidate()
	logger.Info("content: reverted to bundled content")
	return nil
}

// Sorted returns the cached content reordered by order, encoded as JSON.
func (s *ContentService) Sorted(ctx context.Context, order []string) ([]byte, error) {
	return domain.EncodeContent(domain.SortCategories(s.Categories(ctx), order))
}
