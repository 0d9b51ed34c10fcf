package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Address is a value object holding a delivery address.
// It is immutable - all operations return new Address instances.
// State is the two-letter federative unit (UF), e.g. "SP".
type Address struct {
	postalCode PostalCode
	street     string
	number     string
	complement string
	district   string
	city       string
	state      string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithComplement sets the complement (apartment, block, ...)
func WithComplement(complement string) AddressOption {
	return func(a *Address) {
		a.complement = strings.TrimSpace(complement)
	}
}

// NewAddress creates a new Address.
// Postal code, street, number, city and state are required.
func NewAddress(postalCode PostalCode, street, number, district, city, state string, opts ...AddressOption) (Address, error) {
	addr := Address{
		postalCode: postalCode,
		street:     strings.TrimSpace(street),
		number:     strings.TrimSpace(number),
		district:   strings.TrimSpace(district),
		city:       strings.TrimSpace(city),
		state:      strings.ToUpper(strings.TrimSpace(state)),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	switch {
	case addr.postalCode.IsEmpty():
		return Address{}, shared.ErrInvalidPostalCode
	case addr.street == "":
		return Address{}, invalidAddressField("street")
	case addr.number == "":
		return Address{}, invalidAddressField("number")
	case addr.city == "":
		return Address{}, invalidAddressField("city")
	case len(addr.state) != 2:
		return Address{}, shared.ErrInvalidInput.WithMessage("state must be a two-letter code")
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(postalCode PostalCode, street, number, district, city, state string, opts ...AddressOption) Address {
	addr, err := NewAddress(postalCode, street, number, district, city, state, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

func invalidAddressField(field string) error {
	return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("address %s is required", field))
}

func (a Address) PostalCode() PostalCode { return a.postalCode }
func (a Address) Street() string         { return a.street }
func (a Address) Number() string         { return a.number }
func (a Address) Complement() string     { return a.complement }
func (a Address) District() string       { return a.district }
func (a Address) City() string           { return a.city }
func (a Address) State() string          { return a.state }

// IsEmpty returns true for the zero value
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.postalCode.IsEmpty()
}

// FullAddress returns the single-line shipping label text.
// Format: Street, Number - Complement - District, City/UF - CEP 12345-678
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(a.street)
	sb.WriteString(", ")
	sb.WriteString(a.number)
	if a.complement != "" {
		sb.WriteString(" - ")
		sb.WriteString(a.complement)
	}
	if a.district != "" {
		sb.WriteString(" - ")
		sb.WriteString(a.district)
	}
	sb.WriteString(", ")
	sb.WriteString(a.city)
	sb.WriteString("/")
	sb.WriteString(a.state)
	sb.WriteString(" - CEP ")
	sb.WriteString(a.postalCode.Formatted())
	return sb.String()
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		PostalCode: a.postalCode.Digits(),
		Street:     a.street,
		Number:     a.number,
		Complement: a.complement,
		District:   a.district,
		City:       a.city,
		State:      a.state,
	})
}

// UnmarshalJSON implements json.Unmarshaler, applying the NewAddress rules
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.PostalCode == "" && v.Street == "" && v.City == "" {
		*a = Address{}
		return nil
	}
	pc, err := ParsePostalCode(v.PostalCode)
	if err != nil {
		return err
	}
	addr, err := NewAddress(pc, v.Street, v.Number, v.District, v.City, v.State, WithComplement(v.Complement))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
