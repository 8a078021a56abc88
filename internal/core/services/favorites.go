package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

// Ensure FavoritesService implements the interface.
var _ driving.FavoritesService = (*FavoritesService)(nil)

// FavoritesService manages favourited rules.
type FavoritesService struct {
	store driven.FavoriteStore

	mu        sync.Mutex
	listeners []func()
}

// NewFavoritesService creates a favourites service.
func NewFavoritesService(store driven.FavoriteStore) *FavoritesService {
	return &FavoritesService{store: store}
}

// OnChange registers fn to run after every successful mutation.
func (s *FavoritesService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Toggle flips a rule's favourite status and returns the new status.
func (s *FavoritesService) Toggle(ctx context.Context, key domain.FavoriteKey) (bool, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if domain.NewFavoriteSet(keys).Contains(key) {
		return false, s.Remove(ctx, key)
	}
	return true, s.Add(ctx, key)
}

// Add marks a rule as favourite.
func (s *FavoritesService) Add(ctx context.Context, key domain.FavoriteKey) error {
	if key.Category == "" || key.Text == "" {
		return fmt.Errorf("%w: favourite needs a category and a rule", domain.ErrInvalidInput)
	}
	if err := s.store.Insert(ctx, key); err != nil {
		return fmt.Errorf("adding favourite: %w", err)
	}
	s.notify()
	return nil
}

// Remove clears a rule's favourite status.
func (s *FavoritesService) Remove(ctx context.Context, key domain.FavoriteKey) error {
	if err := s.store.DeleteByCategoryAndText(ctx, key.Category, key.Text); err != nil {
		return fmt.Errorf("removing favourite: %w", err)
	}
	s.notify()
	return nil
}

// List returns all favourites in insertion order.
func (s *FavoritesService) List(ctx context.Context) ([]domain.FavoriteKey, error) {
	keys, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing favourites: %w", err)
	}
	return keys, nil
}

func (s *FavoritesService) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
