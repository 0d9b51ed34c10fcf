package trade

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderPlacedHandler records placed orders in the application log
type OrderPlacedHandler struct {
	logger *zap.Logger
}

// NewOrderPlacedHandler creates a new handler for order placed events
func NewOrderPlacedHandler(logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

// Handle processes an OrderPlacedEvent
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("order placed",
		zap.String("order_id", placed.OrderID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("customer_id", placed.CustomerID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("item_count", placed.ItemCount),
		zap.String("payment_method", string(placed.PaymentMethod)),
	)
	return nil
}

// OrderStatusChangedHandler records status overwrites in the application log
type OrderStatusChangedHandler struct {
	logger *zap.Logger
}

// NewOrderStatusChangedHandler creates a new handler for status change events
func NewOrderStatusChangedHandler(logger *zap.Logger) *OrderStatusChangedHandler {
	return &OrderStatusChangedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderStatusChangedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderStatusChanged}
}

// Handle processes an OrderStatusChangedEvent
func (h *OrderStatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*trade.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderStatusChanged, event.EventType())
	}

	h.logger.Info("order status changed",
		zap.String("order_id", changed.OrderID.String()),
		zap.String("order_number", changed.OrderNumber),
		zap.String("from", string(changed.From)),
		zap.String("to", string(changed.To)),
		zap.Bool("regular", changed.Regular),
	)
	return nil
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
var _ shared.EventHandler = (*OrderStatusChangedHandler)(nil)
