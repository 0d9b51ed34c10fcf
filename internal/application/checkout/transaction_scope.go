package checkout

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories checkout touches.
// Everything done inside Execute is committed or rolled back as a unit.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives repositories that share one transaction.
//
//   - ProductRepo locks and decrements product stock.
//   - AddressRepo reads the customer's delivery address.
//   - OrderRepo reserves the order number and stores the order.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	AddressRepo() customer.AddressStore
	OrderRepo() trade.OrderRepository
}

// NoOpTransactionScope runs without a transaction.
// This is useful for testing.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	addressRepo customer.AddressStore
	orderRepo   trade.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	addressRepo customer.AddressStore,
	orderRepo trade.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// AddressRepo returns the address store.
func (s *NoOpTransactionScope) AddressRepo() customer.AddressStore {
	return s.addressRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
