package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderService is the order query and back-office surface
type OrderService interface {
	GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*tradeapp.OrderResponse, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]tradeapp.OrderListItemResponse, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, req tradeapp.SetStatusRequest) (*tradeapp.OrderResponse, error)
}

var _ OrderService = (*tradeapp.OrderService)(nil)

// OrderHandler handles order queries for customers and status updates for
// the back office
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns the customer's orders, newest first
// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.ListForCustomer(c.Request.Context(), customerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, len(orders))
}

// GetByID returns one of the customer's orders
// GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetForCustomer(c.Request.Context(), customerID(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByNumber returns one of the customer's orders by its public number.
// Orders of other customers are reported as not found.
// GET /orders/number/:order_number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("order_number")

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order.CustomerID != customerID(c) {
		h.HandleError(c, shared.ErrOrderNotFound.WithSubject(number))
		return
	}
	h.Success(c, order)
}

// SetStatus overwrites the status of any order
// PUT /admin/orders/:id/status
func (h *OrderHandler) SetStatus(c *gin.Context) {
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
