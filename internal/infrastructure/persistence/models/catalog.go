package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Code             string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code"`
	Name             string                `gorm:"type:varchar(200);not null"`
	Price            decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Stock            int                   `gorm:"not null;default:0"`
	Status           catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	PrimaryImagePath string                `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Price:             m.Price,
		Stock:             m.Stock,
		Status:            m.Status,
		PrimaryImagePath:  m.PrimaryImagePath,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Price = p.Price
	m.Stock = p.Stock
	m.Status = p.Status
	m.PrimaryImagePath = p.PrimaryImagePath
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
