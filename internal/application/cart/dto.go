package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shipping"
)

// AddItemRequest represents a request to put a product in the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a request to change a line quantity.
// Zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImagePath   string          `json:"image_path,omitempty"`
}

// SelectedShippingResponse is the shipping option chosen for the cart
type SelectedShippingResponse struct {
	Category       shipping.Category `json:"category"`
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	DeliveryWindow string            `json:"delivery_window"`
	FreeShipping   bool              `json:"free_shipping"`
}

// CartResponse represents the cart summary shown before checkout
type CartResponse struct {
	Items      []CartItemResponse        `json:"items"`
	ItemCount  int                       `json:"item_count"`
	IsEmpty    bool                      `json:"is_empty"`
	Subtotal   decimal.Decimal           `json:"subtotal"`
	PostalCode string                    `json:"postal_code,omitempty"`
	Shipping   *SelectedShippingResponse `json:"shipping,omitempty"`
	Total      decimal.Decimal           `json:"total"`
}

// ToCartResponse converts a cart to its summary
func ToCartResponse(c *cart.Cart) CartResponse {
	lines := c.Lines()
	items := make([]CartItemResponse, len(lines))
	for i, line := range lines {
		items[i] = CartItemResponse{
			ProductID:   line.ProductID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal(),
			ImagePath:   line.ImagePath,
		}
	}

	subtotal := c.Total()
	resp := CartResponse{
		Items:     items,
		ItemCount: c.ItemCount(),
		IsEmpty:   c.IsEmpty(),
		Subtotal:  subtotal,
		Total:     subtotal,
	}

	if sel := c.Shipping(); sel != nil {
		resp.PostalCode = sel.Quote.Destination.PostalCode.Formatted()
	}
	if opt, ok := c.SelectedShipping(); ok {
		resp.Shipping = &SelectedShippingResponse{
			Category:       opt.Category,
			Name:           opt.Name,
			Price:          opt.Price,
			DeliveryWindow: opt.DeliveryWindow(),
			FreeShipping:   opt.FreeShipping,
		}
		resp.Total = subtotal.Add(opt.Price)
	}
	return resp
}
