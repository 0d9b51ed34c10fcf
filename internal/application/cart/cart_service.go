package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService handles session cart operations
type CartService struct {
	sessions *Sessions
	catalog  catalog.Catalog
}

// NewCartService creates a new CartService
func NewCartService(sessions *Sessions, catalog catalog.Catalog) *CartService {
	return &CartService{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Get returns the cart summary of a session
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product to the cart, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		product, err := s.getProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		return c.Add(product, req.Quantity)
	})
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// UpdateItem replaces the quantity of a line.
// A quantity of zero or less removes the line; products not in the cart are ignored.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		if req.Quantity <= 0 {
			c.Remove(productID)
			return nil
		}
		if _, ok := c.Line(productID); !ok {
			return nil
		}
		product, err := s.getProduct(ctx, productID)
		if err != nil {
			return err
		}
		return c.UpdateQuantity(product, req.Quantity)
	})
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem removes a line. Removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the cart and forgets its shipping quote
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

func (s *CartService) getProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.ErrProductNotFound.WithSubject(id.String())
		}
		return nil, err
	}
	return product, nil
}
