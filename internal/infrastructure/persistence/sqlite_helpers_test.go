package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite-compatible schema. Decimals are stored as TEXT to keep them exact.
var sqliteSchema = []string{
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		stock INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		primary_image_path TEXT
	)`,
	`CREATE TABLE customer_addresses (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		customer_id TEXT NOT NULL,
		nickname TEXT,
		postal_code TEXT NOT NULL,
		street TEXT NOT NULL,
		number TEXT NOT NULL,
		complement TEXT,
		district TEXT,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		is_billing BOOLEAN NOT NULL DEFAULT 0,
		is_default_shipping BOOLEAN NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		order_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		shipping_price TEXT NOT NULL,
		total TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		installments INTEGER NOT NULL DEFAULT 1,
		shipping_postal_code TEXT NOT NULL,
		shipping_street TEXT NOT NULL,
		shipping_number TEXT NOT NULL,
		shipping_complement TEXT,
		shipping_district TEXT,
		shipping_city TEXT NOT NULL,
		shipping_state TEXT NOT NULL,
		shipping_address_text TEXT NOT NULL,
		shipping_category TEXT NOT NULL,
		shipping_name TEXT NOT NULL,
		shipping_delivery_window TEXT
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		product_code TEXT NOT NULL,
		product_name TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		subtotal TEXT NOT NULL,
		image_path TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE order_sequences (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	p.PrimaryImagePath = "/img/" + code + ".jpg"
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedAddress(t *testing.T, db *gorm.DB, customerID uuid.UUID) *customer.Address {
	t.Helper()
	location := valueobject.MustNewAddress(
		valueobject.MustParsePostalCode("01310-100"),
		"Avenida Paulista", "1000", "Bela Vista", "São Paulo", "SP",
	)
	addr, err := customer.NewAddress(customerID, "Casa", location)
	require.NoError(t, err)
	require.NoError(t, NewGormAddressRepository(db).Save(context.Background(), addr))
	return addr
}
