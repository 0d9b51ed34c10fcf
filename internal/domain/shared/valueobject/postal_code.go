package valueobject

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/storefront/backend/internal/domain/shared"
)

// PostalCodeLength is the number of digits in a Brazilian postal code (CEP)
const PostalCodeLength = 8

// PostalCode is a normalized 8-digit postal code.
// The zero value is the empty postal code.
type PostalCode struct {
	digits string
}

// ParsePostalCode strips every non-digit rune from raw and requires exactly 8 digits.
// "01310-100", "01310100" and " 01.310-100 " all parse to the same value.
func ParsePostalCode(raw string) (PostalCode, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
	if len(digits) != PostalCodeLength {
		return PostalCode{}, shared.ErrInvalidPostalCode
	}
	return PostalCode{digits: digits}, nil
}

// MustParsePostalCode parses raw and panics on error
func MustParsePostalCode(raw string) PostalCode {
	pc, err := ParsePostalCode(raw)
	if err != nil {
		panic(err)
	}
	return pc
}

// Digits returns the 8 digits without separator
func (p PostalCode) Digits() string {
	return p.digits
}

// Formatted returns the postal code as 12345-678
func (p PostalCode) Formatted() string {
	if len(p.digits) != PostalCodeLength {
		return p.digits
	}
	return p.digits[:5] + "-" + p.digits[5:]
}

// IsEmpty returns true for the zero value
func (p PostalCode) IsEmpty() bool {
	return p.digits == ""
}

// String returns the formatted postal code
func (p PostalCode) String() string {
	return p.Formatted()
}

// MarshalJSON implements json.Marshaler
func (p PostalCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.digits)
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PostalCode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = PostalCode{}
		return nil
	}
	pc, err := ParsePostalCode(raw)
	if err != nil {
		return err
	}
	*p = pc
	return nil
}
