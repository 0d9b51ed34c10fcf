package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedEvent is raised when checkout persists a new order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID         `json:"order_id"`
	OrderNumber      string            `json:"order_number"`
	CustomerID       uuid.UUID         `json:"customer_id"`
	Total            decimal.Decimal   `json:"total"`
	ItemCount        int               `json:"item_count"`
	PaymentMethod    PaymentMethod     `json:"payment_method"`
	ShippingCategory shipping.Category `json:"shipping_category"`
	Items            []OrderedQuantity `json:"items"`
}

// OrderedQuantity is the stock impact of one order line
type OrderedQuantity struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	items := make([]OrderedQuantity, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderedQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &OrderPlacedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber.String(),
		CustomerID:       order.CustomerID,
		Total:            order.Total,
		ItemCount:        order.ItemCount(),
		PaymentMethod:    order.Payment.Method,
		ShippingCategory: order.Shipping.Category,
		Items:            items,
	}
}

// OrderStatusChangedEvent is raised on every status overwrite.
// Regular is false when the change skipped or reversed lifecycle steps.
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	Regular     bool        `json:"regular"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber.String(),
		From:            from,
		To:              to,
		Regular:         from.CanTransitionTo(to),
	}
}
