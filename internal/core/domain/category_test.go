package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnlockState(t *testing.T) {
	tests := []struct {
		name       string
		watched    int
		wantLocked bool
		wantCount  int
	}{
		{"none watched", 0, true, 0},
		{"one watched", 1, true, 1},
		{"threshold reached", 2, false, 2},
		{"past threshold", 5, false, 5},
		{"negative clamps to zero", -3, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewUnlockState(tt.watched)
			assert.Equal(t, tt.wantLocked, state.Locked)
			assert.Equal(t, tt.wantCount, state.AdsWatched)
		})
	}
}

func TestFavoriteSet_Contains(t *testing.T) {
	set := NewFavoriteSet([]FavoriteKey{{Category: "Kitchen", Text: "Use an island"}})

	assert.True(t, set.Contains(FavoriteKey{Category: "Kitchen", Text: "Use an island"}))
	assert.False(t, set.Contains(FavoriteKey{Category: "kitchen", Text: "Use an island"}))

	var nilSet FavoriteSet
	assert.False(t, nilSet.Contains(FavoriteKey{Category: "Kitchen", Text: "Use an island"}))
}

func TestProject(t *testing.T) {
	raw := []RawCategory{
		{Name: "Kitchen", Rules: []string{"k1", "k2"}},
		{Name: "Lighting", Rules: []string{"l1"}},
		{Name: "Stairs", Rules: []string{}},
	}
	states := map[string]UnlockState{
		"Kitchen":  NewUnlockState(2),
		"Lighting": NewUnlockState(1),
	}
	favorites := NewFavoriteSet([]FavoriteKey{{Category: "Kitchen", Text: "k2"}})

	categories := Project(raw, states, favorites)

	require.Len(t, categories, 3)
	assert.Equal(t, "Kitchen", categories[0].Name)
	assert.False(t, categories[0].Locked)
	assert.Equal(t, 2, categories[0].AdsWatched)
	assert.Equal(t, AdsRequiredToUnlock, categories[0].AdsRequiredToUnlock)
	require.Len(t, categories[0].Rules, 2)
	assert.False(t, categories[0].Rules[0].IsFavorite)
	assert.True(t, categories[0].Rules[1].IsFavorite)
	assert.Equal(t, "Kitchen", categories[0].Rules[1].Category)

	assert.True(t, categories[1].Locked)
	assert.Equal(t, 1, categories[1].AdsWatched)

	// Missing ledger state projects as locked with zero views.
	assert.True(t, categories[2].Locked)
	assert.Equal(t, 0, categories[2].AdsWatched)
	assert.Empty(t, categories[2].Rules)
}

func TestProject_LockInvariant(t *testing.T) {
	raw := []RawCategory{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	states := map[string]UnlockState{
		"A": NewUnlockState(0),
		"B": NewUnlockState(1),
		"C": NewUnlockState(3),
	}

	for _, c := range Project(raw, states, nil) {
		assert.Equal(t, c.AdsWatched < c.AdsRequiredToUnlock, c.Locked, c.Name)
	}
}

func TestProject_Empty(t *testing.T) {
	categories := Project(nil, nil, nil)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestCategory_WithRules(t *testing.T) {
	original := Category{Name: "Kitchen", Rules: []Rule{{Category: "Kitchen", Text: "k1"}}}
	copied := original.WithRules(nil)

	assert.Nil(t, copied.Rules)
	assert.Len(t, original.Rules, 1)
	assert.Equal(t, original.Name, copied.Name)
}

func TestRule_Key(t *testing.T) {
	r := Rule{Category: "Kitchen", Text: "k1", IsFavorite: true}
	assert.Equal(t, FavoriteKey{Category: "Kitchen", Text: "k1"}, r.Key())
}
