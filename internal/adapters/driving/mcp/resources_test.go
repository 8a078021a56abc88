package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid category URI",
			uri:      "architips://categories/Kitchen",
			expected: "Kitchen",
		},
		{
			name:     "escaped name",
			uri:      "architips://categories/Living%20Room",
			expected: "Living Room",
		},
		{
			name:     "invalid prefix",
			uri:      "file://categories/Kitchen",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "architips://categories/%zz",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCategoryName(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCategoriesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists categories without rules", func(t *testing.T) {
		server := newTestServer(&mockCatalogueService{categories: testCategories()}, &mockSearchService{})

		result, err := server.handleCategoriesResource(ctx, makeReadResourceRequest("architips://categories"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []CategoryOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Kitchen", got[0].Name)
		assert.False(t, got[0].Locked)
		assert.True(t, got[1].Locked)
		assert.Empty(t, got[0].Rules)
	})

	t.Run("catalogue error", func(t *testing.T) {
		catalogue := &mockCatalogueService{err: errors.New("boom")}
		server := newTestServer(catalogue, &mockSearchService{})

		_, err := server.handleCategoriesResource(ctx, makeReadResourceRequest("architips://categories"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestServer_handleCategoryRulesResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(&mockCatalogueService{categories: testCategories()}, &mockSearchService{})

	t.Run("unlocked category", func(t *testing.T) {
		result, err := server.handleCategoryRulesResource(ctx, makeReadResourceRequest("architips://categories/kitchen"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Keep the work triangle compact\nCounter height 90 cm", result.Contents[0].Text)
	})

	t.Run("locked category is not found", func(t *testing.T) {
		_, err := server.handleCategoryRulesResource(ctx, makeReadResourceRequest("architips://categories/Living%20Room"))
		assert.Error(t, err)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		_, err := server.handleCategoryRulesResource(ctx, makeReadResourceRequest("architips://categories/Garage"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleCategoryRulesResource(ctx, makeReadResourceRequest("architips://other"))
		assert.Error(t, err)
	})
}
