package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/architips/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to look for in category names and rules"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of categories to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Summary    string           `json:"summary"`
	Matches    int              `json:"matches"`
	Categories []CategoryOutput `json:"categories"`
}

// CategoryOutput is a category as returned by the tools.
type CategoryOutput struct {
	Name       string   `json:"name"`
	Locked     bool     `json:"locked"`
	AdsWatched int      `json:"ads_watched"`
	Rules      []string `json:"rules,omitempty"`
}

// CategoryInput names a category.
type CategoryInput struct {
	Category string `json:"category" jsonschema:"category name, case-insensitive"`
}

// RulesOutput is the output schema for the rules tool.
type RulesOutput struct {
	Category string   `json:"category"`
	Rules    []string `json:"rules"`
}

// UnlockOutput is the output schema for the unlock tool.
type UnlockOutput struct {
	Category   string `json:"category"`
	Locked     bool   `json:"locked"`
	AdsWatched int    `json:"ads_watched"`
	AdsNeeded  int    `json:"ads_needed"`
}

// FavoriteInput identifies a rule to toggle.
type FavoriteInput struct {
	Category string `json:"category" jsonschema:"category name, case-insensitive"`
	Rule     string `json:"rule" jsonschema:"exact rule text"`
}

// FavoriteOutput reports the new favourite status.
type FavoriteOutput struct {
	Favorite bool `json:"favorite"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search architecture tips by category name or rule text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rules",
		Description: "List the rules of an unlocked category",
	}, s.handleRules)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "unlock",
		Description: "Record one watched ad for a category; two unlock it",
	}, s.handleUnlock)

	if s.ports.Favorites != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "favorite",
			Description: "Toggle a rule's favourite status",
		}, s.handleFavorite)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.ports.Search.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Summary: domain.SearchBanner(input.Query, results),
		Matches: domain.TotalMatches(results),
	}
	if len(results) > limit {
		results = results[:limit]
	}
	output.Categories = make([]CategoryOutput, len(results))
	for i := range results {
		output.Categories[i] = toCategoryOutput(&results[i])
	}

	return nil, output, nil
}

// handleRules returns the rules of a category. Locked categories are refused.
func (s *Server) handleRules(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CategoryInput,
) (*mcp.CallToolResult, RulesOutput, error) {
	category, err := s.findCategory(ctx, input.Category)
	if err != nil {
		return nil, RulesOutput{}, err
	}
	if category.Locked {
		return nil, RulesOutput{}, fmt.Errorf("%w: %s needs %d more ad(s)",
			ErrCategoryLocked, category.Name, category.AdsRequiredToUnlock-category.AdsWatched)
	}

	output := RulesOutput{
		Category: category.Name,
		Rules:    ruleTexts(category.Rules),
	}
	return nil, output, nil
}

// handleUnlock records an ad view for a category.
func (s *Server) handleUnlock(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CategoryInput,
) (*mcp.CallToolResult, UnlockOutput, error) {
	category, err := s.findCategory(ctx, input.Category)
	if err != nil {
		return nil, UnlockOutput{}, err
	}

	updated, err := s.ports.Catalogue.UnlockWithAd(ctx, category.Name)
	if err != nil {
		return nil, UnlockOutput{}, err
	}

	return nil, UnlockOutput{
		Category:   updated.Name,
		Locked:     updated.Locked,
		AdsWatched: updated.AdsWatched,
		AdsNeeded:  max(0, updated.AdsRequiredToUnlock-updated.AdsWatched),
	}, nil
}

// handleFavorite toggles the favourite status of a rule.
func (s *Server) handleFavorite(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FavoriteInput,
) (*mcp.CallToolResult, FavoriteOutput, error) {
	category, err := s.findCategory(ctx, input.Category)
	if err != nil {
		return nil, FavoriteOutput{}, err
	}

	for _, r := range category.Rules {
		if r.Text != input.Rule {
			continue
		}
		on, err := s.ports.Favorites.Toggle(ctx, r.Key())
		if err != nil {
			return nil, FavoriteOutput{}, err
		}
		return nil, FavoriteOutput{Favorite: on}, nil
	}
	return nil, FavoriteOutput{}, fmt.Errorf("rule not found in %s: %w", category.Name, domain.ErrNotFound)
}

// findCategory loads categories and returns the first whose name matches
// case-insensitively.
func (s *Server) findCategory(ctx context.Context, name string) (*domain.Category, error) {
	categories, err := s.ports.Catalogue.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
}

func toCategoryOutput(c *domain.Category) CategoryOutput {
	return CategoryOutput{
		Name:       c.Name,
		Locked:     c.Locked,
		AdsWatched: c.AdsWatched,
		Rules:      ruleTexts(c.Rules),
	}
}

func ruleTexts(rules []domain.Rule) []string {
	texts := make([]string, len(rules))
	for i, r := range rules {
		texts[i] = r.Text
	}
	return texts
}
