package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"id", "created_at", "updated_at", "version", "code", "name", "price", "stock", "status", "primary_image_path"}

func TestGormProductRepository_GetProduct(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, "SKU-1", "79.90", 10)

	t.Run("finds existing product", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", p.Code)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("79.90")))
		assert.Equal(t, 10, p.Stock)
		assert.True(t, p.IsActive())
	})

	t.Run("unknown id", func(t *testing.T) {
		missing := uuid.New()
		_, err := repo.GetProduct(ctx, missing)
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}

func TestGormProductRepository_Save(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "SKU-1", "10.00", 5)
	p.Price = decimal.RequireFromString("12.50")
	p.Deactivate()
	require.NoError(t, repo.Save(ctx, p))

	stored, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, catalog.ProductStatusInactive, stored.Status)

	var count int64
	require.NoError(t, db.Table("products").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "SKU-1", "10.00", 5)

	t.Run("subtracts and bumps version", func(t *testing.T) {
		require.NoError(t, repo.DecrementStock(ctx, p.ID, 3))

		stored, err := repo.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Stock)
		assert.Equal(t, p.Version+1, stored.Version)
	})

	t.Run("never goes negative", func(t *testing.T) {
		err := repo.DecrementStock(ctx, p.ID, 3)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Product SKU-1")

		stored, err := repo.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Stock)
	})

	t.Run("down to zero", func(t *testing.T) {
		require.NoError(t, repo.DecrementStock(ctx, p.ID, 2))
		stored, err := repo.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Stock)
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.ErrorIs(t, repo.DecrementStock(ctx, uuid.New(), 1), shared.ErrProductNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		assert.ErrorIs(t, repo.DecrementStock(ctx, p.ID, 0), shared.ErrInvalidQuantity)
	})
}

func TestGormProductRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productColumns).
			AddRow(id, now, now, 4, "SKU-1", "Camiseta", "79.90", 7, "active", "/img/sku-1.jpg")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		p, err := repo.FindByIDForUpdate(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, 7, p.Stock)
		assert.Equal(t, 4, p.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("works without row locks on sqlite", func(t *testing.T) {
		db := setupSQLiteDB(t)
		seeded := seedProduct(t, db, "SKU-1", "1.00", 1)

		p, err := NewGormProductRepository(db).FindByIDForUpdate(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, p.ID)
	})
}

func TestGormProductRepository_DecrementStock_SQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(gormDB)

	id := uuid.New()
	now := time.Now()

	mock.ExpectExec(`UPDATE "products" SET .*"stock"=stock - \$\d.* WHERE id = \$\d AND stock >= \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(id, now, now, 1, "SKU-1", "Camiseta", "79.90", 1, "active", ""))

	err := repo.DecrementStock(context.Background(), id, 2)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
