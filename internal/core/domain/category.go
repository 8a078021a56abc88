package domain

// AdsRequiredToUnlock is the number of rewarded ad views that unlock a category.
const AdsRequiredToUnlock = 2

// RawCategory is a category exactly as it appears in the content blob.
// The full set is replaced wholesale on update, never merged.
type RawCategory struct {
	// Name identifies the category. Case-sensitive on disk,
	// case-insensitive for lookups.
	Name string `json:"category"`

	// Rules holds the rule texts in declaration order.
	Rules []string `json:"rules"`
}

// Rule is a single rule text within a category.
// Identity is the (Category, Text) pair, never the rule's position.
type Rule struct {
	// Category is the name of the owning category.
	Category string `json:"category"`

	// Text is the rule body.
	Text string `json:"text"`

	// IsFavorite is a view annotation populated from the favourites store.
	// The Rule is not the system of record for favourite status.
	IsFavorite bool `json:"is_favorite"`
}

// Key returns the durable favourites key for the rule.
func (r Rule) Key() FavoriteKey {
	return FavoriteKey{Category: r.Category, Text: r.Text}
}

// Category is a display-ready category combining content and unlock state.
// Values are recreated on every projection and must be treated as snapshots:
// mutations go through the ledger and a fresh Category is projected.
type Category struct {
	Name                string `json:"name"`
	Locked              bool   `json:"locked"`
	AdsWatched          int    `json:"ads_watched"`
	AdsRequiredToUnlock int    `json:"ads_required_to_unlock"`
	Rules               []Rule `json:"rules"`
}

// WithRules returns a copy of the category carrying the given rules.
func (c Category) WithRules(rules []Rule) Category {
	c.Rules = rules
	return c
}

// UnlockState is the ledger view of a single category.
type UnlockState struct {
	Locked     bool `json:"locked"`
	AdsWatched int  `json:"ads_watched"`
}

// NewUnlockState derives the state for a watched count, keeping
// Locked == (AdsWatched < AdsRequiredToUnlock).
func NewUnlockState(adsWatched int) UnlockState {
	if adsWatched < 0 {
		adsWatched = 0
	}
	return UnlockState{
		Locked:     adsWatched < AdsRequiredToUnlock,
		AdsWatched: adsWatched,
	}
}

// FavoriteKey identifies a favourited rule.
type FavoriteKey struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// FavoriteSet is a lookup of favourited rules.
type FavoriteSet map[FavoriteKey]struct{}

// NewFavoriteSet builds a set from the given keys.
func NewFavoriteSet(keys []FavoriteKey) FavoriteSet {
	set := make(FavoriteSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Contains reports whether the key is a favourite. A nil set contains nothing.
func (s FavoriteSet) Contains(k FavoriteKey) bool {
	_, ok := s[k]
	return ok
}

// BuildRules converts a raw category into annotated rules.
func BuildRules(raw RawCategory, favorites FavoriteSet) []Rule {
	rules := make([]Rule, len(raw.Rules))
	for i, text := range raw.Rules {
		rules[i] = Rule{
			Category:   raw.Name,
			Text:       text,
			IsFavorite: favorites.Contains(FavoriteKey{Category: raw.Name, Text: text}),
		}
	}
	return rules
}

// Project combines raw content and ledger state into display-ready categories.
// It returns exactly one Category per RawCategory, in declaration order.
// Categories missing from states are projected as locked with zero views.
func Project(raw []RawCategory, states map[string]UnlockState, favorites FavoriteSet) []Category {
	categories := make([]Category, len(raw))
	for i, rc := range raw {
		state, ok := states[rc.Name]
		if !ok {
			state = NewUnlockState(0)
		}
		categories[i] = Category{
			Name:                rc.Name,
			Locked:              state.Locked,
			AdsWatched:          state.AdsWatched,
			AdsRequiredToUnlock: AdsRequiredToUnlock,
			Rules:               BuildRules(rc, favorites),
		}
	}
	return categories
}
