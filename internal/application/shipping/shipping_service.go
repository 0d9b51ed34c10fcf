package shipping

import (
	"context"

	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
)

// RateEngine prices shipping options for a postal code
type RateEngine interface {
	Quote(ctx context.Context, rawPostalCode string, subtotal decimal.Decimal) (*shipping.Quote, error)
}

var _ RateEngine = (*shipping.Engine)(nil)

// ShippingService quotes shipping and keeps the session's choice
type ShippingService struct {
	engine   RateEngine
	sessions *cartapp.Sessions
}

// NewShippingService creates a new ShippingService
func NewShippingService(engine RateEngine, sessions *cartapp.Sessions) *ShippingService {
	return &ShippingService{
		engine:   engine,
		sessions: sessions,
	}
}

// Quote prices a postal code for an explicit subtotal without touching any session
func (s *ShippingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	quote, err := s.engine.Quote(ctx, req.PostalCode, req.Subtotal)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote, "")
	return &response, nil
}

// QuoteForSession prices the session cart and stores the quote in the session.
// Any previous selection is discarded.
func (s *ShippingService) QuoteForSession(ctx context.Context, sessionID string, req SessionQuoteRequest) (*QuoteResponse, error) {
	var quote *shipping.Quote
	_, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}
		q, err := s.engine.Quote(ctx, req.PostalCode, c.Total())
		if err != nil {
			return err
		}
		c.SetShippingQuote(q)
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote, "")
	return &response, nil
}

// SelectOption chooses one of the options of the stored quote
func (s *ShippingService) SelectOption(ctx context.Context, sessionID string, req SelectOptionRequest) (*QuoteResponse, error) {
	category := shipping.Category(req.Category)
	if !category.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Unknown shipping category").WithSubject(req.Category)
	}

	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		return c.SelectShipping(category)
	})
	if err != nil {
		return nil, err
	}
	sel := c.Shipping()
	response := ToQuoteResponse(&sel.Quote, sel.Selected)
	return &response, nil
}

// CurrentQuote returns the stored quote of the session
func (s *ShippingService) CurrentQuote(ctx context.Context, sessionID string) (*QuoteResponse, error) {
	c, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sel := c.Shipping()
	if sel == nil {
		return nil, shared.ErrNotFound.WithMessage("No shipping quote for this cart")
	}
	response := ToQuoteResponse(&sel.Quote, sel.Selected)
	return &response, nil
}

// ClearSelection drops the stored quote and selected option of the session.
// Clearing a session without a quote is not an error.
func (s *ShippingService) ClearSelection(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.ClearShipping()
		return nil
	})
	return err
}
