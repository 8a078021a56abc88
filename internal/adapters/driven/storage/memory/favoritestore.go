package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
)

// Ensure FavoriteStore implements the interface.
var _ driven.FavoriteStore = (*FavoriteStore)(nil)

// FavoriteStore is an in-memory implementation of driven.FavoriteStore.
type FavoriteStore struct {
	mu   sync.RWMutex
	keys []domain.FavoriteKey
}

// NewFavoriteStore creates an empty favourites store.
func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{}
}

// Insert adds a favourite, ignoring duplicates.
func (s *FavoriteStore) Insert(_ context.Context, key domain.FavoriteKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys {
		if k == key {
			return nil
		}
	}
	s.keys = append(s.keys, key)
	return nil
}

// DeleteByCategoryAndText removes a favourite.
func (s *FavoriteStore) DeleteByCategoryAndText(_ context.Context, category, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := domain.FavoriteKey{Category: category, Text: text}
	for i, k := range s.keys {
		if k == target {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetAll returns favourites in insertion order.
func (s *FavoriteStore) GetAll(_ context.Context) ([]domain.FavoriteKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FavoriteKey, len(s.keys))
	copy(out, s.keys)
	return out, nil
}
