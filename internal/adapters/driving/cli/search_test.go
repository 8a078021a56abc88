package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/architips/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasInteractiveFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("interactive")
	require.NotNil(t, flag, "interactive flag should exist")
	assert.Equal(t, "i", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsBannerAndMatches(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	kitchen := testCategories()[0]
	ts.search.results = []domain.Category{kitchen.WithRules(kitchen.Rules[1:])}

	out, err := executeCommand("search", "counter")

	require.NoError(t, err)
	assert.Contains(t, out, `Showing 1 result for "counter"`)
	assert.Contains(t, out, "  Kitchen\n")
	assert.Contains(t, out, "    - Counter height 90 cm ★\n")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("search", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, `No results found for "zzz"`)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()
	ts.search.results = testCategories()[:1]

	out, err := executeCommand("search", "--json", "kitchen")

	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Kitchen"`)
	assert.Contains(t, out, `"is_favorite": true`)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = errors.New("index gone")

	_, err := executeCommand("search", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed: index gone")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	_, err := executeCommand("search", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_InteractivePrintsLatestQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		searchInteractive = false
		rootCmd.SetIn(nil)
	}()
	ts.search.results = testCategories()[:1]

	rootCmd.SetIn(strings.NewReader("k\nki\nkitchen\n"))
	out, err := executeCommand("search", "-i")

	require.NoError(t, err)
	assert.Contains(t, out, `for "kitchen"`)
	assert.NotContains(t, out, `for "ki"`)
	assert.Equal(t, 1, strings.Count(out, "Showing"))
}

func TestSearchCmd_InteractiveRejectsArgs(t *testing.T) {
	defer func() { searchInteractive = false }()

	_, err := executeCommand("search", "-i", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
