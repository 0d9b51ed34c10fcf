package trade

import "github.com/storefront/backend/internal/domain/shared"

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusAwaitingPayment  OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaymentConfirmed OrderStatus = "PAYMENT_CONFIRMED"
	OrderStatusPicking          OrderStatus = "PICKING"
	OrderStatusInTransit        OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// AllOrderStatuses lists every status in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusPaymentConfirmed,
	OrderStatusPicking,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus converts a raw value into a known status
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", shared.ErrInvalidStatus.WithSubject(raw)
	}
	return s, nil
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusPaymentConfirmed, OrderStatusPicking,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for DELIVERED and CANCELLED
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether target is the regular next step of the
// lifecycle (or a cancellation of a non-terminal order).
// It is advisory: Order.SetStatus accepts any valid status so that staff can
// correct mistakes, and callers use this only to flag irregular changes.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusAwaitingPayment:
		return target == OrderStatusPaymentConfirmed
	case OrderStatusPaymentConfirmed:
		return target == OrderStatusPicking
	case OrderStatusPicking:
		return target == OrderStatusInTransit
	case OrderStatusInTransit:
		return target == OrderStatusDelivered
	}
	return false
}
