package customer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Address is a delivery or billing address registered by a customer.
type Address struct {
	shared.BaseEntity
	CustomerID        uuid.UUID
	Nickname          string
	Location          valueobject.Address
	IsBilling         bool
	IsDefaultShipping bool
	Active            bool
}

// NewAddress creates an active address owned by customerID
func NewAddress(customerID uuid.UUID, nickname string, location valueobject.Address) (*Address, error) {
	if customerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("customer id is required")
	}
	if location.IsEmpty() {
		return nil, shared.ErrInvalidInput.WithMessage("address location is required")
	}
	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Nickname:   strings.TrimSpace(nickname),
		Location:   location,
		Active:     true,
	}, nil
}

// BelongsTo reports whether the address is owned by customerID
func (a *Address) BelongsTo(customerID uuid.UUID) bool {
	return a.CustomerID == customerID
}

// EnsureUsableBy checks the address can receive an order placed by customerID.
func (a *Address) EnsureUsableBy(customerID uuid.UUID) error {
	if !a.BelongsTo(customerID) {
		return shared.ErrInvalidAddress.WithSubject(a.ID.String())
	}
	if !a.Active {
		return shared.ErrInvalidAddress.WithMessage("Address is no longer active").WithSubject(a.ID.String())
	}
	return nil
}
