// Package connector implements the marketplace boundary: it fetches raw
// listings from third-party sources and normalizes them into catalog.Listing
// values. The decision engine never talks to the network itself.
package connector

import (
	"context"

	"github.com/almastelek/Sourceror/internal/catalog"
)

// Connector is one marketplace source of product listings.
type Connector interface {
	// SourceName returns the source identifier for debug reporting.
	SourceName() string

	// Search fetches up to maxResults normalized listings for a query within
	// a product category. Connectors own the TotalCost invariant: every
	// returned listing has TotalCost == Price + shipping (0 when unknown).
	Search(ctx context.Context, query, category string, maxResults int) ([]catalog.Listing, error)
}
