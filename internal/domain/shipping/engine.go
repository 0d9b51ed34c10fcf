package shipping

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Quote is the result of pricing one destination for one cart value
type Quote struct {
	Destination Destination     `json:"destination"`
	Tier        Tier            `json:"tier"`
	DistanceKm  int             `json:"distance_km"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Options     []Option        `json:"options"`
}

// Option returns the option of the given category, if quoted
func (q *Quote) Option(category Category) (Option, bool) {
	for _, o := range q.Options {
		if o.Category == category {
			return o, true
		}
	}
	return Option{}, false
}

// Engine computes shipping options. It is deterministic: the only
// outside input is the postal code resolution.
type Engine struct {
	lookup    PostalLookup
	distances *DistanceTable
	rates     RateCard
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithDistanceTable replaces the default hub distance table
func WithDistanceTable(t *DistanceTable) EngineOption {
	return func(e *Engine) {
		e.distances = t
	}
}

// WithRateCard replaces the default rates
func WithRateCard(r RateCard) EngineOption {
	return func(e *Engine) {
		e.rates = r
	}
}

// NewEngine creates a rate engine using lookup for postal resolution
func NewEngine(lookup PostalLookup, opts ...EngineOption) *Engine {
	e := &Engine{
		lookup:    lookup,
		distances: DefaultDistanceTable(),
		rates:     DefaultRateCard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rates returns the rate card in use
func (e *Engine) Rates() RateCard {
	return e.rates
}

// Quote resolves rawPostalCode and prices every applicable option.
//
// Errors: shared.ErrEmptyCart when subtotal <= 0, shared.ErrInvalidDestination
// for malformed or unknown codes, lookup errors of kind EXTERNAL unchanged.
func (e *Engine) Quote(ctx context.Context, rawPostalCode string, subtotal decimal.Decimal) (*Quote, error) {
	if !subtotal.IsPositive() {
		return nil, shared.ErrEmptyCart
	}

	code, err := valueobject.ParsePostalCode(rawPostalCode)
	if err != nil {
		return nil, shared.ErrInvalidDestination.WithSubject(rawPostalCode)
	}

	dest, err := e.lookup.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidDestination) || shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.ErrUnknownDestination.WithSubject(code.Digits())
		}
		return nil, err
	}

	return e.QuoteDestination(*dest, subtotal), nil
}

// QuoteDestination prices an already resolved destination.
// Options are ordered economy, express postal, then carrier or local express.
func (e *Engine) QuoteDestination(dest Destination, subtotal decimal.Decimal) *Quote {
	tier, km := e.distances.Locate(dest)
	r := e.rates

	economyPrice := r.Economy.Price(km, subtotal)
	economyMin, economyMax := r.EconomySchedule.Window(km)
	economy := Option{
		Category:    CategoryPAC,
		Name:        "PAC - Correios",
		Description: "Economy delivery",
		Price:       economyPrice,
		MinDays:     economyMin,
		MaxDays:     economyMax,
	}

	expressMin, expressMax := r.ExpressPostalSchedule.Window(km)
	expressPostal := Option{
		Category:    CategorySEDEX,
		Name:        "SEDEX - Correios",
		Description: "Fast delivery",
		Price:       roundCents(clamp(economyPrice.Mul(r.ExpressPostalFactor), r.ExpressPostalMin, r.ExpressPostalMax)),
		MinDays:     expressMin,
		MaxDays:     expressMax,
	}

	var third Option
	if km > r.LongHaulKm {
		carrierMin, carrierMax := r.CarrierSchedule.Window(km)
		third = Option{
			Category:    CategoryCarrier,
			Name:        "Partner carrier",
			Description: "Delivery by a partner carrier",
			Price:       r.Carrier.Price(km, subtotal),
			MinDays:     carrierMin,
			MaxDays:     carrierMax,
		}
	} else {
		minDays := 1
		if km < r.SameDayKm {
			minDays = 0
		}
		third = Option{
			Category:    CategoryExpress,
			Name:        "Express delivery",
			Description: "Same day or within 24 hours",
			Price:       r.ExpressLocal.Price(km, subtotal),
			MinDays:     minDays,
			MaxDays:     1,
		}
	}

	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		economy.Price = decimal.Zero
		economy.Description = "Economy delivery - free shipping"
		economy.FreeShipping = true
	}

	return &Quote{
		Destination: dest,
		Tier:        tier,
		DistanceKm:  km,
		Subtotal:    subtotal,
		Options:     []Option{economy, expressPostal, third},
	}
}
