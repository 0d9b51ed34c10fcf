package trade

import (
	"fmt"
	"strconv"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// MaxOrderSequence is the largest sequence that fits the 6-digit suffix
const MaxOrderSequence = 999999

// OrderNumber is the customer-facing order identifier: YYYYMM followed by a
// zero-padded 6-digit sequence, e.g. 202610000042.
type OrderNumber string

// NewOrderNumber formats the number for an order created at placedAt
func NewOrderNumber(placedAt time.Time, sequence int64) (OrderNumber, error) {
	if sequence < 1 || sequence > MaxOrderSequence {
		return "", shared.NewDomainError("INVALID_ORDER_SEQUENCE",
			fmt.Sprintf("Order sequence %d is outside 1..%d", sequence, MaxOrderSequence))
	}
	return OrderNumber(fmt.Sprintf("%04d%02d%06d", placedAt.Year(), int(placedAt.Month()), sequence)), nil
}

// ParseOrderNumber validates the textual shape of an order number
func ParseOrderNumber(raw string) (OrderNumber, error) {
	if len(raw) != 12 {
		return "", shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number must have 12 digits")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number must have 12 digits")
		}
	}
	month, _ := strconv.Atoi(raw[4:6])
	if month < 1 || month > 12 {
		return "", shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number has an invalid month")
	}
	return OrderNumber(raw), nil
}

// Period returns the YYYYMM prefix
func (n OrderNumber) Period() string {
	if len(n) < 6 {
		return ""
	}
	return string(n[:6])
}

// Sequence returns the numeric suffix
func (n OrderNumber) Sequence() int64 {
	if len(n) < 7 {
		return 0
	}
	seq, err := strconv.ParseInt(string(n[6:]), 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

// String returns the string representation
func (n OrderNumber) String() string {
	return string(n)
}
