package handler

import (
	"context"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	shippingapp "github.com/storefront/backend/internal/application/shipping"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/stretchr/testify/mock"
)

// MockCartService implements CartService for testing
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*cartapp.CartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID))
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID string, req cartapp.AddItemRequest) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID, productID, req))
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID, productID))
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) (*cartapp.CartResponse, error) {
	return m.cart(m.Called(ctx, sessionID))
}

// MockShippingService implements ShippingService for testing
type MockShippingService struct {
	mock.Mock
}

func (m *MockShippingService) quote(args mock.Arguments) (*shippingapp.QuoteResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shippingapp.QuoteResponse), args.Error(1)
}

func (m *MockShippingService) Quote(ctx context.Context, req shippingapp.QuoteRequest) (*shippingapp.QuoteResponse, error) {
	return m.quote(m.Called(ctx, req))
}

func (m *MockShippingService) QuoteForSession(ctx context.Context, sessionID string, req shippingapp.SessionQuoteRequest) (*shippingapp.QuoteResponse, error) {
	return m.quote(m.Called(ctx, sessionID, req))
}

func (m *MockShippingService) SelectOption(ctx context.Context, sessionID string, req shippingapp.SelectOptionRequest) (*shippingapp.QuoteResponse, error) {
	return m.quote(m.Called(ctx, sessionID, req))
}

func (m *MockShippingService) CurrentQuote(ctx context.Context, sessionID string) (*shippingapp.QuoteResponse, error) {
	return m.quote(m.Called(ctx, sessionID))
}

func (m *MockShippingService) ClearSelection(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockCheckoutService implements CheckoutService for testing
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, sessionID string, customerID uuid.UUID, req checkoutapp.CheckoutRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, sessionID, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*tradeapp.OrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, customerID, orderID))
}

func (m *MockOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, orderNumber))
}

func (m *MockOrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]tradeapp.OrderListItemResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.OrderListItemResponse), args.Error(1)
}

func (m *MockOrderService) SetStatus(ctx context.Context, orderID uuid.UUID, req tradeapp.SetStatusRequest) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, orderID, req))
}
