package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	tradeapp "github.com/storefront/backend/internal/application/trade"
)

// CheckoutService places orders from session carts
type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, customerID uuid.UUID, req checkoutapp.CheckoutRequest) (*tradeapp.OrderResponse, error)
}

// IdempotencyKeyHeader lets clients retry a checkout without placing a second order
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds client supplied idempotency keys
const MaxIdempotencyKeyLength = 255

var _ CheckoutService = (*checkoutapp.CheckoutService)(nil)

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	BaseHandler
	checkoutService CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout turns the session cart into an order for the current customer
// POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutapp.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(req.IdempotencyKey) > MaxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), sessionID(c), customerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Location", "/api/v1/orders/"+order.ID.String())
	h.Created(c, order)
}
