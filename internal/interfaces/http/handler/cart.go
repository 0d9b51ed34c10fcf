package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartService is the cart use case surface the handler needs
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cartapp.CartResponse, error)
	AddItem(ctx context.Context, sessionID string, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, sessionID string) (*cartapp.CartResponse, error)
}

var _ CartService = (*cartapp.CartService)(nil)

// CartHandler handles the session cart endpoints
type CartHandler struct {
	BaseHandler
	cartService CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart summary
// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.cartService.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem puts a product in the cart, merging with an existing line
// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem sets the quantity of a line; zero removes it
// PUT /cart/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.UpdateItem(c.Request.Context(), sessionID(c), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem deletes a line
// DELETE /cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	resp, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear empties the cart
// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	resp, err := h.cartService.Clear(c.Request.Context(), sessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
