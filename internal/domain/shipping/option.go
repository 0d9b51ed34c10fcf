package shipping

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category identifies a kind of delivery service
type Category string

const (
	CategoryPAC     Category = "PAC"     // economy postal service
	CategorySEDEX   Category = "SEDEX"   // express postal service
	CategoryCarrier Category = "CARRIER" // partner carrier, long haul only
	CategoryExpress Category = "EXPRESS" // local courier, short distances only
)

// IsValid checks if the category is a known value
func (c Category) IsValid() bool {
	switch c {
	case CategoryPAC, CategorySEDEX, CategoryCarrier, CategoryExpress:
		return true
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// Option is one priced delivery choice for a quote
type Option struct {
	Category     Category        `json:"category"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	MinDays      int             `json:"min_days"`
	MaxDays      int             `json:"max_days"`
	FreeShipping bool            `json:"free_shipping"`
}

// DeliveryWindow renders the business-day window shown to the customer
// and copied into the order.
func (o Option) DeliveryWindow() string {
	return FormatDeliveryWindow(o.MinDays, o.MaxDays)
}

// FormatDeliveryWindow renders a min/max business-day window
func FormatDeliveryWindow(minDays, maxDays int) string {
	switch {
	case minDays == 0:
		return "same day"
	case minDays == maxDays && minDays == 1:
		return "1 business day"
	case minDays == maxDays:
		return fmt.Sprintf("%d business days", minDays)
	default:
		return fmt.Sprintf("%d to %d business days", minDays, maxDays)
	}
}
