package mcp

import (
	"github.com/custodia-labs/architips/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Catalogue projects categories and records unlocks.
	Catalogue driving.CatalogueService

	// Search runs text queries over categories and rules.
	Search driving.SearchService

	// Favorites toggles favourite rules. Optional.
	Favorites driving.FavoritesService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Catalogue == nil {
		return ErrMissingCatalogueService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
