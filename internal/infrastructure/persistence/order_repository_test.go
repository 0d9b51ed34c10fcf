package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var orderPlacedAt = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func buildOrder(t *testing.T, seq int64, customerID uuid.UUID, placedAt time.Time, products ...*catalog.Product) *trade.Order {
	t.Helper()
	number, err := trade.NewOrderNumber(placedAt, seq)
	require.NoError(t, err)
	order, err := trade.NewOrder(number, customerID, placedAt)
	require.NoError(t, err)

	for _, p := range products {
		_, err := order.AddItem(p, 2)
		require.NoError(t, err)
	}
	require.NoError(t, order.SetShippingAddress(valueobject.MustNewAddress(
		valueobject.MustParsePostalCode("01310-100"),
		"Avenida Paulista", "1000", "Bela Vista", "São Paulo", "SP",
	)))
	require.NoError(t, order.SetShipping(shipping.Option{
		Category: shipping.CategoryPAC,
		Name:     "PAC - Correios",
		Price:    decimal.RequireFromString("13.90"),
		MinDays:  2,
		MaxDays:  4,
	}))
	payment, err := trade.NewPayment(trade.PaymentMethodBoleto, 1)
	require.NoError(t, err)
	order.SetPayment(payment)
	require.NoError(t, order.Place())
	return order
}

func TestGormOrderRepository_NextOrderSequence(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextOrderSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("rolled back with the transaction", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			seq, err := NewGormOrderRepository(tx).NextOrderSequence(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(4), seq)
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		seq, err := repo.NextOrderSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), seq)
	})

	t.Run("unique under concurrency", func(t *testing.T) {
		var (
			mu   sync.Mutex
			seen = make(map[int64]bool)
			wg   sync.WaitGroup
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = db.Transaction(func(tx *gorm.DB) error {
					seq, err := NewGormOrderRepository(tx).NextOrderSequence(ctx)
					if err != nil {
						return err
					}
					mu.Lock()
					defer mu.Unlock()
					assert.False(t, seen[seq], "sequence %d reserved twice", seq)
					seen[seq] = true
					return nil
				})
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 20)
	})
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	shirt := seedProduct(t, db, "SHIRT", "79.90", 10)
	mug := seedProduct(t, db, "MUG", "25.00", 10)
	customerID := uuid.New()

	order := buildOrder(t, 42, customerID, orderPlacedAt, shirt, mug)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderNumber("202603000042"), found.OrderNumber)
		assert.Equal(t, customerID, found.CustomerID)
		assert.Equal(t, trade.OrderStatusAwaitingPayment, found.Status)
		assert.True(t, found.Subtotal.Equal(decimal.RequireFromString("209.80")))
		assert.True(t, found.Total.Equal(decimal.RequireFromString("223.70")))
		assert.Equal(t, order.ShippingAddressText(), found.ShippingAddressText())
		assert.Equal(t, "2 to 4 business days", found.Shipping.DeliveryWindow)

		require.Len(t, found.Items, 2)
		assert.Equal(t, "SHIRT", found.Items[0].ProductCode)
		assert.Equal(t, "MUG", found.Items[1].ProductCode)
		assert.True(t, found.Items[0].Subtotal.Equal(decimal.RequireFromString("159.80")))
	})

	t.Run("by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, "202603000042")
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrOrderNotFound)
		_, err = repo.FindByOrderNumber(ctx, "202603999999")
		assert.ErrorIs(t, err, shared.ErrOrderNotFound)
	})

	t.Run("order numbers are unique", func(t *testing.T) {
		duplicate := buildOrder(t, 42, uuid.New(), orderPlacedAt, shirt)
		assert.Error(t, repo.Save(ctx, duplicate))
	})
}

func TestGormOrderRepository_FindByCustomer(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "SKU-1", "10.00", 10)
	customerID := uuid.New()

	older := buildOrder(t, 1, customerID, orderPlacedAt, p)
	newer := buildOrder(t, 2, customerID, orderPlacedAt.Add(time.Hour), p)
	other := buildOrder(t, 3, uuid.New(), orderPlacedAt, p)
	for _, o := range []*trade.Order{older, newer, other} {
		require.NoError(t, repo.Save(ctx, o))
	}

	orders, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
	assert.Len(t, orders[0].Items, 1)
}

func TestGormOrderRepository_UpdateStatus(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "SKU-1", "10.00", 10)
	order := buildOrder(t, 1, uuid.New(), orderPlacedAt, p)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("writes status and version", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetStatus(trade.OrderStatusDelivered))
		require.NoError(t, repo.UpdateStatus(ctx, loaded))

		stored, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusDelivered, stored.Status)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *order // still at version 1
		require.NoError(t, stale.SetStatus(trade.OrderStatusCancelled))

		err := repo.UpdateStatus(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusDelivered, stored.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		ghost := buildOrder(t, 9, uuid.New(), orderPlacedAt, p)
		require.NoError(t, ghost.SetStatus(trade.OrderStatusPicking))
		assert.ErrorIs(t, repo.UpdateStatus(ctx, ghost), shared.ErrOrderNotFound)
	})
}
