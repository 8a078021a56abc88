package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.Category
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string) ([]domain.Category, error) {
	return m.results, m.err
}

// mockCatalogueService is a mock implementation of driving.CatalogueService.
type mockCatalogueService struct {
	categories []domain.Category
	err        error
	unlocked   []string
}

func (m *mockCatalogueService) LoadCategories(_ context.Context) ([]domain.Category, error) {
	return m.categories, m.err
}

func (m *mockCatalogueService) RulesFor(_ context.Context, name string) []domain.Rule {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c.Rules
		}
	}
	return []domain.Rule{}
}

func (m *mockCatalogueService) UnlockWithAd(_ context.Context, name string) (domain.Category, error) {
	if m.err != nil {
		return domain.Category{}, m.err
	}
	m.unlocked = append(m.unlocked, name)
	for i := range m.categories {
		if m.categories[i].Name == name {
			m.categories[i].AdsWatched++
			m.categories[i].Locked = m.categories[i].AdsWatched < domain.AdsRequiredToUnlock
			return m.categories[i], nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

// mockFavoritesService is a mock implementation of driving.FavoritesService.
type mockFavoritesService struct {
	favorites map[domain.FavoriteKey]bool
	err       error
}

func (m *mockFavoritesService) Toggle(_ context.Context, key domain.FavoriteKey) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.favorites == nil {
		m.favorites = make(map[domain.FavoriteKey]bool)
	}
	m.favorites[key] = !m.favorites[key]
	return m.favorites[key], nil
}

func (m *mockFavoritesService) Add(_ context.Context, key domain.FavoriteKey) error {
	_, err := m.Toggle(context.Background(), key)
	return err
}

func (m *mockFavoritesService) Remove(_ context.Context, key domain.FavoriteKey) error {
	delete(m.favorites, key)
	return m.err
}

func (m *mockFavoritesService) List(_ context.Context) ([]domain.FavoriteKey, error) {
	var keys []domain.FavoriteKey
	for k, on := range m.favorites {
		if on {
			keys = append(keys, k)
		}
	}
	return keys, m.err
}

func testCategories() []domain.Category {
	rules := func(name string, texts ...string) []domain.Rule {
		out := make([]domain.Rule, len(texts))
		for i, t := range texts {
			out[i] = domain.Rule{Category: name, Text: t}
		}
		return out
	}
	return []domain.Category{
		{
			Name: "Kitchen", AdsWatched: 2, AdsRequiredToUnlock: 2,
			Rules: rules("Kitchen", "Keep the work triangle compact", "Counter height 90 cm"),
		},
		{
			Name: "Living Room", Locked: true, AdsRequiredToUnlock: 2,
			Rules: rules("Living Room", "Face seating towards the light"),
		},
	}
}

func newTestServer(catalogue *mockCatalogueService, search *mockSearchService) *Server {
	server, err := NewServer(&Ports{
		Catalogue: catalogue,
		Search:    search,
		Favorites: &mockFavoritesService{},
	})
	if err != nil {
		panic(err)
	}
	return server
}
