package telemetry

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrPaymentMethod    = attribute.Key("payment_method")
	AttrShippingCategory = attribute.Key("shipping_category")
	AttrStatusFrom       = attribute.Key("from")
	AttrStatusTo         = attribute.Key("to")
	AttrRegular          = attribute.Key("regular")
)

// OrderMetrics turns order events into counters and value histograms.
// It is subscribed to the event bus, so only committed orders are counted.
type OrderMetrics struct {
	ordersPlaced  metric.Int64Counter
	orderValue    metric.Float64Histogram
	itemsPerOrder metric.Float64Histogram
	statusChanges metric.Int64Counter
}

// NewOrderMetrics creates the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	var (
		m   OrderMetrics
		err error
	)
	if m.ordersPlaced, err = meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders placed"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, instrumentError("storefront.orders.placed", err)
	}
	if m.orderValue, err = meter.Float64Histogram("storefront.orders.value",
		metric.WithDescription("Order total including shipping"),
		metric.WithUnit("BRL"),
		metric.WithExplicitBucketBoundaries(25, 50, 100, 150, 250, 500, 1000, 2500),
	); err != nil {
		return nil, instrumentError("storefront.orders.value", err)
	}
	if m.itemsPerOrder, err = meter.Float64Histogram("storefront.orders.items",
		metric.WithDescription("Units per order"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20),
	); err != nil {
		return nil, instrumentError("storefront.orders.items", err)
	}
	if m.statusChanges, err = meter.Int64Counter("storefront.orders.status_changes",
		metric.WithDescription("Order status overwrites"),
		metric.WithUnit("{change}"),
	); err != nil {
		return nil, instrumentError("storefront.orders.status_changes", err)
	}
	return &m, nil
}

func instrumentError(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// EventTypes returns the event types this handler is interested in
func (m *OrderMetrics) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged}
}

// Handle records one event
func (m *OrderMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		attrs := metric.WithAttributes(
			AttrPaymentMethod.String(string(e.PaymentMethod)),
			AttrShippingCategory.String(string(e.ShippingCategory)),
		)
		m.ordersPlaced.Add(ctx, 1, attrs)
		m.orderValue.Record(ctx, e.Total.InexactFloat64(), attrs)
		m.itemsPerOrder.Record(ctx, float64(e.ItemCount), attrs)
	case *trade.OrderStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(
			AttrStatusFrom.String(string(e.From)),
			AttrStatusTo.String(string(e.To)),
			AttrRegular.Bool(e.Regular),
		))
	}
	return nil
}

var _ shared.EventHandler = (*OrderMetrics)(nil)
