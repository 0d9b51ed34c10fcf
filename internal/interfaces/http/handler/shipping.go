package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	shippingapp "github.com/storefront/backend/internal/application/shipping"
)

// ShippingService is the shipping use case surface the handler needs
type ShippingService interface {
	Quote(ctx context.Context, req shippingapp.QuoteRequest) (*shippingapp.QuoteResponse, error)
	QuoteForSession(ctx context.Context, sessionID string, req shippingapp.SessionQuoteRequest) (*shippingapp.QuoteResponse, error)
	SelectOption(ctx context.Context, sessionID string, req shippingapp.SelectOptionRequest) (*shippingapp.QuoteResponse, error)
	CurrentQuote(ctx context.Context, sessionID string) (*shippingapp.QuoteResponse, error)
	ClearSelection(ctx context.Context, sessionID string) error
}

var _ ShippingService = (*shippingapp.ShippingService)(nil)

// ShippingHandler handles shipping quote endpoints
type ShippingHandler struct {
	BaseHandler
	shippingService ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// Estimate quotes a postal code for an arbitrary cart value without
// touching the session. Used on product pages.
// POST /shipping/estimate
func (h *ShippingHandler) Estimate(c *gin.Context) {
	var req shippingapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.shippingService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// QuoteCart quotes the session cart and stores the options in the session
// POST /shipping/quote
func (h *ShippingHandler) QuoteCart(c *gin.Context) {
	var req shippingapp.SessionQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.shippingService.QuoteForSession(c.Request.Context(), sessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CurrentQuote returns the stored quote and selection
// GET /shipping/quote
func (h *ShippingHandler) CurrentQuote(c *gin.Context) {
	resp, err := h.shippingService.CurrentQuote(c.Request.Context(), sessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SelectOption chooses one of the quoted options
// PUT /shipping/selection
func (h *ShippingHandler) SelectOption(c *gin.Context) {
	var req shippingapp.SelectOptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.shippingService.SelectOption(c.Request.Context(), sessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ClearSelection drops the stored quote and selection
// DELETE /shipping/selection
func (h *ShippingHandler) ClearSelection(c *gin.Context) {
	if err := h.shippingService.ClearSelection(c.Request.Context(), sessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
