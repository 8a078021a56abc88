package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/architips/internal/core/domain"
)

func TestCatalogue_FirstLaunchProjection(t *testing.T) {
	f := newFixture(t, fixtureContent)

	categories := f.categories(t)

	require.Len(t, categories, 4)
	assert.Equal(t, []string{"Kitchen", "Lighting", "Stairs", "Garden"}, categoryNames(categories))
	assert.False(t, categories[0].Locked)
	assert.True(t, categories[1].Locked)
	assert.False(t, categories[2].Locked)
	assert.True(t, categories[3].Locked)
	assert.False(t, f.ledger.IsFirstLaunch())

	for _, c := range categories {
		assert.Equal(t, c.AdsWatched < c.AdsRequiredToUnlock, c.Locked, c.Name)
		assert.Equal(t, domain.AdsRequiredToUnlock, c.AdsRequiredToUnlock)
	}
}

func TestCatalogue_LoadIsIdempotent(t *testing.T) {
	f := newFixture(t, fixtureContent)

	first := f.categories(t)
	second := f.categories(t)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.store.ReadCount())
}

func TestCatalogue_NewCategoriesAfterUpdateAreLocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureContent)
	f.categories(t)

	require.NoError(t, f.store.Write(ctx, []byte(updatedContent)))
	f.cache.Invalidate()

	categories := f.categories(t)
	require.Len(t, categories, 2)
	assert.False(t, categories[0].Locked, "Kitchen keeps its unlocked flag")
	assert.True(t, categories[1].Locked, "Bathroom is new and locked")
}

func TestCatalogue_EmptyContentDefersFirstLaunch(t *testing.T) {
	f := newFixture(t, "not json")

	categories := f.categories(t)

	assert.Empty(t, categories)
	assert.True(t, f.ledger.IsFirstLaunch())
}

func TestCatalogue_LedgerFailureStillProjects(t *testing.T) {
	f := newFixture(t, fixtureContent)
	f.config.FailWrites(errors.New("read-only"))

	categories := f.categories(t)

	require.Len(t, categories, 4)
	assert.False(t, categories[0].Locked)
	assert.True(t, f.ledger.IsFirstLaunch())
}

func TestCatalogue_CancelledContext(t *testing.T) {
	f := newFixture(t, fixtureContent)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.catalogue.LoadCategories(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogue_RulesFor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureContent)

	rules := f.catalogue.RulesFor(ctx, "sTaIrS")
	require.Len(t, rules, 2)
	assert.Equal(t, "Stairs", rules[0].Category)
	assert.Equal(t, "Keep risers consistent", rules[0].Text)

	assert.Empty(t, f.catalogue.RulesFor(ctx, "Garden"))
	assert.NotNil(t, f.catalogue.RulesFor(ctx, "Pool"))
	assert.Empty(t, f.catalogue.RulesFor(ctx, "Pool"))
}

func TestCatalogue_RulesFor_FirstMatchWins(t *testing.T) {
	f := newFixture(t, `[{"category":"Kitchen","rules":["first"]},{"category":"KITCHEN","rules":["second"]}]`)

	rules := f.catalogue.RulesFor(context.Background(), "kitchen")

	require.Len(t, rules, 1)
	assert.Equal(t, "first", rules[0].Text)
}

func TestCatalogue_FavoritesAnnotated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureContent)
	require.NoError(t, f.favorites.Insert(ctx, domain.FavoriteKey{Category: "Kitchen", Text: "Use an island for prep"}))

	categories := f.categories(t)
	assert.True(t, categories[0].Rules[0].IsFavorite)
	assert.False(t, categories[0].Rules[1].IsFavorite)

	rules := f.catalogue.RulesFor(ctx, "kitchen")
	assert.True(t, rules[0].IsFavorite)
}

func TestCatalogue_UnlockWithAd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureContent)
	categories := f.categories(t)
	require.True(t, categories[1].Locked)

	c, err := f.catalogue.UnlockWithAd(ctx, "lighting")
	require.NoError(t, err)
	assert.Equal(t, "Lighting", c.Name)
	assert.True(t, c.Locked)
	assert.Equal(t, 1, c.AdsWatched)

	c, err = f.catalogue.UnlockWithAd(ctx, "Lighting")
	require.NoError(t, err)
	assert.False(t, c.Locked)
	assert.Equal(t, 2, c.AdsWatched)
	assert.Len(t, c.Rules, 1)

	// The earlier projection is a snapshot and is not mutated.
	assert.True(t, categories[1].Locked)
	assert.False(t, f.categories(t)[1].Locked)
}

func TestCatalogue_UnlockWithAd_UnknownCategory(t *testing.T) {
	f := newFixture(t, fixtureContent)

	_, err := f.catalogue.UnlockWithAd(context.Background(), "Pool")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogue_WithoutFavoriteStore(t *testing.T) {
	f := newFixture(t, fixtureContent)
	catalogue := NewCatalogueService(f.cache, f.ledger, nil)

	categories, err := catalogue.LoadCategories(context.Background())

	require.NoError(t, err)
	assert.Len(t, categories, 4)
}
