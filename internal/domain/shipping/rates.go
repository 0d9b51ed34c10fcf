package shipping

import "github.com/shopspring/decimal"

// Formula prices a category as
// clamp(Base + km*PerKm + subtotal*OfSubtotal, Min, Max), rounded half-up to cents.
type Formula struct {
	Base       decimal.Decimal
	PerKm      decimal.Decimal
	OfSubtotal decimal.Decimal
	Min        decimal.Decimal
	Max        decimal.Decimal
}

// Price evaluates the formula
func (f Formula) Price(km int, subtotal decimal.Decimal) decimal.Decimal {
	raw := f.Base.
		Add(decimal.NewFromInt(int64(km)).Mul(f.PerKm)).
		Add(subtotal.Mul(f.OfSubtotal))
	return roundCents(clamp(raw, f.Min, f.Max))
}

// Step is one band of a delivery schedule: distances below BelowKm take Days.
type Step struct {
	BelowKm int
	Days    int
}

// Schedule turns a distance into a business-day window.
// Steps are checked in order; Beyond applies past the last step.
// The window is [days, days+Spread].
type Schedule struct {
	Steps  []Step
	Beyond int
	Spread int
}

// Window returns the min/max business days for km
func (s Schedule) Window(km int) (int, int) {
	days := s.Beyond
	for _, step := range s.Steps {
		if km < step.BelowKm {
			days = step.Days
			break
		}
	}
	return days, days + s.Spread
}

// RateCard holds every tunable number of the rate engine
type RateCard struct {
	Economy         Formula
	EconomySchedule Schedule

	// Express postal is priced off the economy price (before any free-shipping waiver)
	ExpressPostalFactor   decimal.Decimal
	ExpressPostalMin      decimal.Decimal
	ExpressPostalMax      decimal.Decimal
	ExpressPostalSchedule Schedule

	Carrier         Formula
	CarrierSchedule Schedule

	ExpressLocal Formula
	// Destinations closer than this get same-day express delivery
	SameDayKm int

	// Destinations farther than LongHaulKm get a carrier option instead of local express
	LongHaulKm int

	// Subtotals at or above this waive the economy price
	FreeShippingThreshold decimal.Decimal
}

// DefaultRateCard returns the production rates
func DefaultRateCard() RateCard {
	return RateCard{
		Economy: Formula{
			Base:       decimal.RequireFromString("12.00"),
			PerKm:      decimal.RequireFromString("0.02"),
			OfSubtotal: decimal.RequireFromString("0.01"),
			Min:        decimal.RequireFromString("8.00"),
			Max:        decimal.RequireFromString("80.00"),
		},
		EconomySchedule: Schedule{
			Steps:  []Step{{50, 2}, {200, 3}, {500, 5}, {1000, 7}, {2000, 10}},
			Beyond: 15,
			Spread: 2,
		},

		ExpressPostalFactor: decimal.RequireFromString("1.8"),
		ExpressPostalMin:    decimal.RequireFromString("15.00"),
		ExpressPostalMax:    decimal.RequireFromString("150.00"),
		ExpressPostalSchedule: Schedule{
			Steps:  []Step{{50, 1}, {200, 1}, {500, 2}, {1000, 3}, {2000, 5}},
			Beyond: 7,
			Spread: 1,
		},

		Carrier: Formula{
			Base:       decimal.RequireFromString("25.00"),
			PerKm:      decimal.RequireFromString("0.015"),
			OfSubtotal: decimal.RequireFromString("0.008"),
			Min:        decimal.RequireFromString("20.00"),
			Max:        decimal.RequireFromString("100.00"),
		},
		CarrierSchedule: Schedule{
			Steps:  []Step{{500, 4}, {1000, 6}, {2000, 8}},
			Beyond: 12,
			Spread: 3,
		},

		ExpressLocal: Formula{
			Base:       decimal.RequireFromString("35.00"),
			PerKm:      decimal.RequireFromString("0.5"),
			OfSubtotal: decimal.Zero,
			Min:        decimal.RequireFromString("30.00"),
			Max:        decimal.RequireFromString("120.00"),
		},
		SameDayKm: 50,

		LongHaulKm:            300,
		FreeShippingThreshold: decimal.RequireFromString("300.00"),
	}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// roundCents rounds half-up to two places; amounts here are never negative.
func roundCents(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
