package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	shippingapp "github.com/storefront/backend/internal/application/shipping"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupShippingRouter(svc ShippingService) *gin.Engine {
	h := NewShippingHandler(svc)
	r := newTestRouter()
	r.POST("/shipping/estimate", h.Estimate)
	g := r.Group("/shipping", middleware.RequireSession())
	g.POST("/quote", h.QuoteCart)
	g.GET("/quote", h.CurrentQuote)
	g.PUT("/selection", h.SelectOption)
	g.DELETE("/selection", h.ClearSelection)
	return r
}

func sampleQuote(selected shipping.Category) *shippingapp.QuoteResponse {
	return &shippingapp.QuoteResponse{
		PostalCode: "01310-100",
		City:       "São Paulo",
		State:      "SP",
		Tier:       shipping.TierSameCity,
		DistanceKm: 15,
		Subtotal:   decimal.RequireFromString("159.80"),
		Options: []shippingapp.OptionResponse{
			{Category: shipping.CategoryPAC, Price: decimal.RequireFromString("13.90"), MinDays: 2, MaxDays: 4, Selected: selected == shipping.CategoryPAC},
			{Category: shipping.CategorySEDEX, Price: decimal.RequireFromString("25.02"), MinDays: 1, MaxDays: 2, Selected: selected == shipping.CategorySEDEX},
		},
	}
}

func TestShippingHandler_QuoteCart(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quoted", nil, http.StatusOK},
		{"malformed postal code", shared.ErrInvalidDestination, http.StatusBadRequest},
		{"unknown postal code", shared.ErrUnknownDestination, http.StatusNotFound},
		{"empty cart", shared.ErrEmptyCart, http.StatusUnprocessableEntity},
		{"lookup outage", shared.ErrPostalLookupFailed.Wrap(errors.New("timeout")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockShippingService)
			req := shippingapp.SessionQuoteRequest{PostalCode: "01310-100"}
			if tt.err != nil {
				svc.On("QuoteForSession", mock.Anything, "sess-1", req).Return(nil, tt.err)
			} else {
				svc.On("QuoteForSession", mock.Anything, "sess-1", req).Return(sampleQuote(""), nil)
			}

			w := perform(setupShippingRouter(svc), testRequest{
				method:    http.MethodPost,
				path:      "/shipping/quote",
				sessionID: "sess-1",
				body:      map[string]any{"postal_code": "01310-100"},
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err == nil {
				var got shippingapp.QuoteResponse
				decodeResponse(t, w, &got)
				require.Len(t, got.Options, 2)
				assert.Equal(t, shipping.TierSameCity, got.Tier)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestShippingHandler_Estimate(t *testing.T) {
	svc := new(MockShippingService)
	svc.On("Quote", mock.Anything, mock.MatchedBy(func(req shippingapp.QuoteRequest) bool {
		return req.PostalCode == "20040002" && req.Subtotal.Equal(decimal.RequireFromString("120.50"))
	})).Return(sampleQuote(""), nil)

	// no session needed
	w := perform(setupShippingRouter(svc), testRequest{
		method: http.MethodPost,
		path:   "/shipping/estimate",
		body:   `{"postal_code":"20040002","subtotal":"120.50"}`,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)

	w = perform(setupShippingRouter(svc), testRequest{
		method: http.MethodPost,
		path:   "/shipping/estimate",
		body:   `{"subtotal":"120.50"}`,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShippingHandler_Selection(t *testing.T) {
	svc := new(MockShippingService)
	svc.On("SelectOption", mock.Anything, "sess-1", shippingapp.SelectOptionRequest{Category: "SEDEX"}).
		Return(sampleQuote(shipping.CategorySEDEX), nil)
	svc.On("CurrentQuote", mock.Anything, "sess-1").Return(sampleQuote(shipping.CategorySEDEX), nil)
	svc.On("ClearSelection", mock.Anything, "sess-1").Return(nil)
	svc.On("CurrentQuote", mock.Anything, "sess-2").Return(nil, shared.ErrNotFound)
	r := setupShippingRouter(svc)

	w := perform(r, testRequest{method: http.MethodPut, path: "/shipping/selection", sessionID: "sess-1", body: map[string]any{"category": "SEDEX"}})
	require.Equal(t, http.StatusOK, w.Code)
	var got shippingapp.QuoteResponse
	decodeResponse(t, w, &got)
	assert.True(t, got.Options[1].Selected)

	w = perform(r, testRequest{method: http.MethodPut, path: "/shipping/selection", sessionID: "sess-1", body: map[string]any{"category": "DRONE"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, testRequest{method: http.MethodGet, path: "/shipping/quote", sessionID: "sess-1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, testRequest{method: http.MethodGet, path: "/shipping/quote", sessionID: "sess-2"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, testRequest{method: http.MethodDelete, path: "/shipping/selection", sessionID: "sess-1"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.AssertExpectations(t)
}
