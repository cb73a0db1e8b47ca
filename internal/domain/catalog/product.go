package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Product is the catalog projection the reporting engine needs: names for
// labeling rollup rows. Catalog CRUD lives elsewhere; this side only reads.
type Product struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
}

// ProductLookup resolves product IDs to catalog labels in one batched read.
type ProductLookup interface {
	// FindByIDs returns the products found; IDs with no catalog row are
	// simply absent from the map, never an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error)
}
