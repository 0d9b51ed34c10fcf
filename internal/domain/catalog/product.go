package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is the sellable item as seen by checkout: price, stock and the
// fields copied into order items.
type Product struct {
	shared.BaseAggregateRoot
	Code             string
	Name             string
	Price            decimal.Decimal
	Stock            int
	Status           ProductStatus
	PrimaryImagePath string
}

// NewProduct creates an active product
func NewProduct(code, name string, price decimal.Decimal, stock int) (*Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Price:             price,
		Stock:             stock,
		Status:            ProductStatusActive,
	}, nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Deactivate removes the product from sale
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.Touch()
}

// EnsureAvailable checks that quantity units can be sold right now.
func (p *Product) EnsureAvailable(quantity int) error {
	if !p.IsActive() {
		return shared.ErrProductUnavailable.
			WithMessage(fmt.Sprintf("Product %s is not available for sale", p.Name)).
			WithSubject(p.ID.String())
	}
	if quantity > p.Stock {
		return InsufficientStock(p, quantity)
	}
	return nil
}

// DecrementStock removes quantity units from stock
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return InsufficientStock(p, quantity)
	}
	p.Stock -= quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// InsufficientStock builds the error naming the product that ran short.
func InsufficientStock(p *Product, requested int) error {
	return shared.ErrInsufficientStock.
		WithMessage(fmt.Sprintf("Insufficient stock for product %s: requested %d, available %d", p.Name, requested, p.Stock)).
		WithSubject(p.ID.String())
}
