package domain

import (
	"fmt"
	"strings"
)

// MatchCategory filters a category against a lower-cased query.
// It returns the category carrying only the matching rules, and whether the
// category belongs in the results at all (name match or at least one rule match).
// A name-only match yields an empty rule list.
func MatchCategory(category Category, rules []Rule, lowerQuery string) (Category, bool) {
	matched := make([]Rule, 0)
	for _, r := range rules {
		if strings.Contains(strings.ToLower(r.Text), lowerQuery) {
			matched = append(matched, r)
		}
	}

	nameMatch := strings.Contains(strings.ToLower(category.Name), lowerQuery)
	if !nameMatch && len(matched) == 0 {
		return Category{}, false
	}
	return category.WithRules(matched), true
}

// TotalMatches counts results the way the summary banner does:
// each category contributes max(1, len(rules)).
func TotalMatches(results []Category) int {
	total := 0
	for _, c := range results {
		total += max(1, len(c.Rules))
	}
	return total
}

// SearchBanner renders the search summary line.
// An empty query has no banner.
func SearchBanner(query string, results []Category) string {
	if query == "" {
		return ""
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q", query)
	}
	total := TotalMatches(results)
	plural := "s"
	if total == 1 {
		plural = ""
	}
	return fmt.Sprintf("Showing %d result%s for %q", total, plural, query)
}
