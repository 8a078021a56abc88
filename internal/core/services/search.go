package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService matches queries against category names and rule texts.
// Rule lists are cached per category name until ClearCache is called.
type SearchService struct {
	catalogue driving.CatalogueService

	mu    sync.RWMutex
	rules map[string][]domain.Rule
}

// NewSearchService creates a search service over the catalogue.
func NewSearchService(catalogue driving.CatalogueService) *SearchService {
	return &SearchService{
		catalogue: catalogue,
		rules:     make(map[string][]domain.Rule),
	}
}

// ClearCache drops all cached rule lists.
func (s *SearchService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[string][]domain.Rule)
}

// CachedCategories returns how many categories have cached rule lists.
func (s *SearchService) CachedCategories() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Search returns matching categories in catalogue order.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.Category, error) {
	if query == "" {
		return []domain.Category{}, nil
	}

	categories, err := s.catalogue.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	results := make([]domain.Category, 0)
	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if match, ok := domain.MatchCategory(c, s.rulesFor(c), lower); ok {
			results = append(results, match)
		}
	}

	logger.Debug("search %q: %d categories, %d matches", query, len(results), domain.TotalMatches(results))
	return results, nil
}

func (s *SearchService) rulesFor(c domain.Category) []domain.Rule {
	s.mu.RLock()
	rules, ok := s.rules[c.Name]
	s.mu.RUnlock()
	if ok {
		return rules
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rules, ok := s.rules[c.Name]; ok {
		return rules
	}
	s.rules[c.Name] = c.Rules
	return c.Rules
}
