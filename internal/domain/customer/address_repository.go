package customer

import (
	"context"

	"github.com/google/uuid"
)

// AddressStore reads customer addresses.
// Get returns shared.ErrAddressNotFound when id is unknown.
type AddressStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Address, error)
}

// AddressRepository adds write access to AddressStore
type AddressRepository interface {
	AddressStore
	Save(ctx context.Context, address *Address) error
}
