package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/logger"
)

// Ensure CatalogueService implements the interface.
var _ driving.CatalogueService = (*CatalogueService)(nil)

// CatalogueService projects cached content, ledger state and favourites
// into display-ready categories.
type CatalogueService struct {
	cache     *ContentCache
	ledger    driving.LedgerService
	favorites driven.FavoriteStore // Optional
}

// NewCatalogueService creates a catalogue service.
// favorites may be nil, in which case no rule is marked as a favourite.
func NewCatalogueService(
	cache *ContentCache,
	ledger driving.LedgerService,
	favorites driven.FavoriteStore,
) *CatalogueService {
	return &CatalogueService{
		cache:     cache,
		ledger:    ledger,
		favorites: favorites,
	}
}

// LoadCategories returns one category per cached raw category.
// Ledger write failures are logged; the computed states are still used.
func (s *CatalogueService) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := s.cache.Get(ctx)
	names := snap.Names()

	firstLaunch := s.ledger.IsFirstLaunch()
	states, err := s.ledger.Reconcile(names, firstLaunch)
	if err != nil {
		logger.Warn("catalogue: %v", err)
	} else if firstLaunch && len(names) > 0 {
		if err := s.ledger.MarkLaunched(); err != nil {
			logger.Warn("catalogue: %v", err)
		}
	}

	return domain.Project(snap.Categories(), states, s.favoriteSet(ctx)), nil
}

// RulesFor returns the rules of the first category matching name, ignoring case.
func (s *CatalogueService) RulesFor(ctx context.Context, name string) []domain.Rule {
	raw, ok := s.cache.Get(ctx).Find(name)
	if !ok {
		return []domain.Rule{}
	}
	return domain.BuildRules(raw, s.favoriteSet(ctx))
}

// UnlockWithAd records a rewarded ad view for the named category.
func (s *CatalogueService) UnlockWithAd(ctx context.Context, name string) (domain.Category, error) {
	raw, ok := s.cache.Get(ctx).Find(name)
	if !ok {
		return domain.Category{}, fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
	}

	if _, err := s.ledger.RecordAdWatched(raw.Name); err != nil {
		return domain.Category{}, err
	}

	states := map[string]domain.UnlockState{raw.Name: s.ledger.State(raw.Name)}
	return domain.Project([]domain.RawCategory{raw}, states, s.favoriteSet(ctx))[0], nil
}

func (s *CatalogueService) favoriteSet(ctx context.Context) domain.FavoriteSet {
	if s.favorites == nil {
		return nil
	}
	keys, err := s.favorites.GetAll(ctx)
	if err != nil {
		logger.Warn("catalogue: loading favourites: %v", err)
		return nil
	}
	return domain.NewFavoriteSet(keys)
}
