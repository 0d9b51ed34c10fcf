package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// ==================== Order DTOs ====================

// SetStatusRequest represents a back-office request to overwrite an order status
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImagePath   string          `json:"image_path,omitempty"`
}

// ShippingResponse is the shipping snapshot of an order
type ShippingResponse struct {
	Category       string          `json:"category"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	DeliveryWindow string          `json:"delivery_window"`
}

// PaymentResponse is the payment choice of an order
type PaymentResponse struct {
	Method       string `json:"method"`
	Installments int    `json:"installments"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	ItemCount       int                 `json:"item_count"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingPrice   decimal.Decimal     `json:"shipping_price"`
	Total           decimal.Decimal     `json:"total"`
	Shipping        ShippingResponse    `json:"shipping"`
	ShippingAddress string              `json:"shipping_address"`
	Payment         PaymentResponse     `json:"payment"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToOrderResponse converts domain Order to OrderResponse
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToOrderItemResponse(&order.Items[i])
	}

	return OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber.String(),
		CustomerID:    order.CustomerID,
		Status:        string(order.Status),
		Items:         items,
		ItemCount:     order.ItemCount(),
		Subtotal:      order.Subtotal,
		ShippingPrice: order.ShippingPrice,
		Total:         order.Total,
		Shipping: ShippingResponse{
			Category:       string(order.Shipping.Category),
			Name:           order.Shipping.Name,
			Price:          order.ShippingPrice,
			DeliveryWindow: order.Shipping.DeliveryWindow,
		},
		ShippingAddress: order.ShippingAddressText(),
		Payment: PaymentResponse{
			Method:       string(order.Payment.Method),
			Installments: order.Payment.Installments,
		},
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Version:   order.Version,
	}
}

// ToOrderItemResponse converts domain OrderItem to OrderItemResponse
func ToOrderItemResponse(item *trade.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		Subtotal:    item.Subtotal,
		ImagePath:   item.ImagePath,
	}
}

// ToOrderListItemResponse converts domain Order to OrderListItemResponse
func ToOrderListItemResponse(order *trade.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber.String(),
		Status:      string(order.Status),
		ItemCount:   order.ItemCount(),
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	}
}
