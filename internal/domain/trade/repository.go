package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// NextOrderSequence atomically reserves the next order number sequence.
	// Inside a transaction the reservation is rolled back with it.
	NextOrderSequence(ctx context.Context) (int64, error)

	// Save inserts a placed order with its items
	Save(ctx context.Context, order *Order) error

	// UpdateStatus persists the status of an existing order,
	// failing with shared.ErrConcurrencyConflict when the stored version moved
	UpdateStatus(ctx context.Context, order *Order) error

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, number OrderNumber) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
}
