package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Catalog is the read side used while shopping.
// GetProduct returns shared.ErrProductNotFound when id is unknown.
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Catalog

	// FindByIDForUpdate loads a product and locks its row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// DecrementStock atomically subtracts quantity, failing with
	// shared.ErrInsufficientStock when the stored stock is lower
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
