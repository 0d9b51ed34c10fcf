package cart

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
)

// Line is one product-quantity pair held for a session.
// Price, code, name and image are captured when the product is first added.
type Line struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImagePath   string          `json:"image_path,omitempty"`
}

// Subtotal returns unit price times quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the per-session shopping cart. Lines keep insertion order.
// A Cart is not safe for concurrent use; callers serialize access per session.
type Cart struct {
	lines    []Line
	shipping *ShippingSelection
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of product into the cart. Adding a product that is
// already present sums the quantities; the combined quantity must fit in stock.
func (c *Cart) Add(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}

	idx := c.indexOf(product.ID)
	combined := quantity
	if idx >= 0 {
		combined += c.lines[idx].Quantity
	}
	if err := product.EnsureAvailable(combined); err != nil {
		return err
	}

	if idx >= 0 {
		c.lines[idx].Quantity = combined
	} else {
		c.lines = append(c.lines, Line{
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    quantity,
			ImagePath:   product.PrimaryImagePath,
		})
	}
	c.invalidateShipping()
	return nil
}

// Remove drops the product's line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	c.invalidateShipping()
}

// UpdateQuantity replaces the quantity of a line already in the cart.
// A quantity <= 0 removes the line. Products not in the cart are ignored.
func (c *Cart) UpdateQuantity(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		c.Remove(product.ID)
		return nil
	}
	if quantity > product.Stock {
		return catalog.InsufficientStock(product, quantity)
	}

	idx := c.indexOf(product.ID)
	if idx < 0 {
		return nil
	}
	c.lines[idx].Quantity = quantity
	c.invalidateShipping()
	return nil
}

// Clear empties the cart and forgets any shipping quote
func (c *Cart) Clear() {
	c.lines = nil
	c.shipping = nil
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID, if present
func (c *Cart) Line(productID uuid.UUID) (Line, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Line{}, false
	}
	return c.lines[idx], true
}

// Total is the sum of unit price times quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ============================================
// Shipping quote state
// ============================================

// ShippingSelection is the quote shown for this cart plus the chosen option
type ShippingSelection struct {
	Quote    shipping.Quote    `json:"quote"`
	Selected shipping.Category `json:"selected,omitempty"`
}

// SelectedOption returns the chosen option, if any
func (s *ShippingSelection) SelectedOption() (shipping.Option, bool) {
	if s.Selected == "" {
		return shipping.Option{}, false
	}
	return s.Quote.Option(s.Selected)
}

// SetShippingQuote stores a fresh quote and clears any previous selection
func (c *Cart) SetShippingQuote(quote *shipping.Quote) {
	c.shipping = &ShippingSelection{Quote: *quote}
}

// SelectShipping marks one of the quoted options as chosen
func (c *Cart) SelectShipping(category shipping.Category) error {
	if c.shipping == nil {
		return shared.ErrShippingNotSelected.WithMessage("Request a shipping quote first")
	}
	if _, ok := c.shipping.Quote.Option(category); !ok {
		return shared.ErrInvalidInput.
			WithMessage("Shipping option " + category.String() + " is not available for this destination").
			WithSubject(category.String())
	}
	c.shipping.Selected = category
	return nil
}

// Shipping returns the current quote state, or nil
func (c *Cart) Shipping() *ShippingSelection {
	return c.shipping
}

// SelectedShipping returns the chosen shipping option, if any
func (c *Cart) SelectedShipping() (shipping.Option, bool) {
	if c.shipping == nil {
		return shipping.Option{}, false
	}
	return c.shipping.SelectedOption()
}

// ClearShipping forgets the quote state
func (c *Cart) ClearShipping() {
	c.shipping = nil
}

// quotes are priced from the subtotal, so any line change makes them stale
func (c *Cart) invalidateShipping() {
	c.shipping = nil
}

// ============================================
// Serialization
// ============================================

type cartJSON struct {
	Lines    []Line             `json:"lines"`
	Shipping *ShippingSelection `json:"shipping,omitempty"`
}

// MarshalJSON implements json.Marshaler so session stores can persist carts
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(cartJSON{Lines: lines, Shipping: c.shipping})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.lines = v.Lines
	c.shipping = v.Shipping
	return nil
}
