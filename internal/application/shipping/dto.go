package shipping

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shipping"
)

// QuoteRequest represents a request to quote a postal code for a cart value
type QuoteRequest struct {
	PostalCode string          `json:"postal_code" binding:"required"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// SessionQuoteRequest represents a request to quote the session cart
type SessionQuoteRequest struct {
	PostalCode string `json:"postal_code" binding:"required"`
}

// SelectOptionRequest represents a request to choose a quoted option
type SelectOptionRequest struct {
	Category string `json:"category" binding:"required,oneof=PAC SEDEX CARRIER EXPRESS"`
}

// OptionResponse represents a shipping option in API responses
type OptionResponse struct {
	Category       shipping.Category `json:"category"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	MinDays        int               `json:"min_days"`
	MaxDays        int               `json:"max_days"`
	DeliveryWindow string            `json:"delivery_window"`
	FreeShipping   bool              `json:"free_shipping"`
	Selected       bool              `json:"selected"`
}

// QuoteResponse represents a shipping quote in API responses
type QuoteResponse struct {
	PostalCode string           `json:"postal_code"`
	City       string           `json:"city"`
	State      string           `json:"state"`
	Tier       shipping.Tier    `json:"tier"`
	DistanceKm int              `json:"distance_km"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	Options    []OptionResponse `json:"options"`
}

// ToQuoteResponse converts a quote, marking selected if set
func ToQuoteResponse(q *shipping.Quote, selected shipping.Category) QuoteResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionResponse{
			Category:       o.Category,
			Name:           o.Name,
			Description:    o.Description,
			Price:          o.Price,
			MinDays:        o.MinDays,
			MaxDays:        o.MaxDays,
			DeliveryWindow: o.DeliveryWindow(),
			FreeShipping:   o.FreeShipping,
			Selected:       selected != "" && o.Category == selected,
		}
	}
	return QuoteResponse{
		PostalCode: q.Destination.PostalCode.Formatted(),
		City:       q.Destination.City,
		State:      q.Destination.State,
		Tier:       q.Tier,
		DistanceKm: q.DistanceKm,
		Subtotal:   q.Subtotal,
		Options:    options,
	}
}
