// Package mcp provides an MCP (Model Context Protocol) server adapter for architips.
// It lets AI assistants search tips, read rules and unlock categories.
package mcp

import "errors"

var (
	// ErrMissingCatalogueService is returned when the catalogue service is not provided.
	ErrMissingCatalogueService = errors.New("mcp: catalogue service is required")

	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrCategoryLocked is returned when rules of a locked category are requested.
	ErrCategoryLocked = errors.New("mcp: category is locked")
)
