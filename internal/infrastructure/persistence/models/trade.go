package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
// Shipping address and option are stored as a snapshot of the time of purchase.
type OrderModel struct {
	AggregateModel
	OrderNumber    string            `gorm:"type:varchar(12);not null;uniqueIndex:idx_orders_number"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_orders_customer"`
	Subtotal       decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	ShippingPrice  decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Status         trade.OrderStatus `gorm:"type:varchar(30);not null;index"`
	PaymentMethod  string            `gorm:"type:varchar(20);not null"`
	Installments   int               `gorm:"not null;default:1"`
	PostalCode     string            `gorm:"column:shipping_postal_code;type:varchar(8);not null"`
	Street         string            `gorm:"column:shipping_street;type:varchar(200);not null"`
	Number         string            `gorm:"column:shipping_number;type:varchar(20);not null"`
	Complement     string            `gorm:"column:shipping_complement;type:varchar(100)"`
	District       string            `gorm:"column:shipping_district;type:varchar(100)"`
	City           string            `gorm:"column:shipping_city;type:varchar(100);not null"`
	State          string            `gorm:"column:shipping_state;type:varchar(2);not null"`
	AddressText    string            `gorm:"column:shipping_address_text;type:text;not null"`
	ShippingType   string            `gorm:"column:shipping_category;type:varchar(20);not null"`
	ShippingName   string            `gorm:"column:shipping_name;type:varchar(100);not null"`
	DeliveryWindow string            `gorm:"column:shipping_delivery_window;type:varchar(50)"`
	Items          []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() (*trade.Order, error) {
	code, err := valueobject.ParsePostalCode(m.PostalCode)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", m.OrderNumber, err)
	}
	address, err := valueobject.NewAddress(code, m.Street, m.Number, m.District, m.City, m.State,
		valueobject.WithComplement(m.Complement))
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", m.OrderNumber, err)
	}

	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}

	return &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       trade.OrderNumber(m.OrderNumber),
		CustomerID:        m.CustomerID,
		Items:             items,
		Subtotal:          m.Subtotal,
		ShippingPrice:     m.ShippingPrice,
		Total:             m.Total,
		Status:            m.Status,
		Payment: trade.Payment{
			Method:       trade.PaymentMethod(m.PaymentMethod),
			Installments: m.Installments,
		},
		ShippingAddress: address,
		Shipping: trade.ShippingSnapshot{
			Category:       shipping.Category(m.ShippingType),
			Name:           m.ShippingName,
			DeliveryWindow: m.DeliveryWindow,
		},
	}, nil
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber.String()
	m.CustomerID = o.CustomerID
	m.Subtotal = o.Subtotal
	m.ShippingPrice = o.ShippingPrice
	m.Total = o.Total
	m.Status = o.Status
	m.PaymentMethod = string(o.Payment.Method)
	m.Installments = o.Payment.Installments

	addr := o.ShippingAddress
	m.PostalCode = addr.PostalCode().Digits()
	m.Street = addr.Street()
	m.Number = addr.Number()
	m.Complement = addr.Complement()
	m.District = addr.District()
	m.City = addr.City()
	m.State = addr.State()
	m.AddressText = o.ShippingAddressText()

	m.ShippingType = string(o.Shipping.Category)
	m.ShippingName = o.Shipping.Name
	m.DeliveryWindow = o.Shipping.DeliveryWindow

	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
		m.Items[i].LineNo = i + 1
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImagePath   string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		Subtotal:    m.Subtotal,
		ImagePath:   m.ImagePath,
		CreatedAt:   m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem.
func OrderItemModelFromDomain(item *trade.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		Subtotal:    item.Subtotal,
		ImagePath:   item.ImagePath,
		CreatedAt:   item.CreatedAt,
	}
}

// OrderSequenceModel holds the last reserved value of a named sequence
type OrderSequenceModel struct {
	Name  string `gorm:"type:varchar(50);primary_key"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderSequenceModel) TableName() string {
	return "order_sequences"
}
