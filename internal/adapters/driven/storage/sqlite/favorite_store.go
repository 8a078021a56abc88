package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
)

// favoriteStore implements driven.FavoriteStore.
type favoriteStore struct {
	store *Store
}

var _ driven.FavoriteStore = (*favoriteStore)(nil)

// Insert adds a favourite; an existing (category, text) pair is left alone.
func (s *favoriteStore) Insert(ctx context.Context, key domain.FavoriteKey) error {
	_, err := s.store.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites (category, rule_text) VALUES (?, ?)",
		key.Category, key.Text)
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

// DeleteByCategoryAndText removes a favourite.
func (s *favoriteStore) DeleteByCategoryAndText(ctx context.Context, category, text string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE category = ? AND rule_text = ?", category, text)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return nil
}

// GetAll returns every favourite in insertion order.
func (s *favoriteStore) GetAll(ctx context.Context) ([]domain.FavoriteKey, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT category, rule_text FROM favorites ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var keys []domain.FavoriteKey //nolint:prealloc // size unknown from query
	for rows.Next() {
		var key domain.FavoriteKey
		if err := rows.Scan(&key.Category, &key.Text); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return keys, nil
}
