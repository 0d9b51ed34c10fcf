package checkout

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/domain/trade"
)

// CheckoutRequest represents a request to turn the session cart into an order
type CheckoutRequest struct {
	AddressID     uuid.UUID `json:"address_id" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Installments  int       `json:"installments" binding:"min=0,max=12"`

	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

// LineInput is one product and quantity to order
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput carries everything needed to place an order
type PlaceOrderInput struct {
	CustomerID uuid.UUID
	AddressID  uuid.UUID
	Lines      []LineInput
	Shipping   shipping.Option
	Payment    trade.Payment
}
