package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
)

// OrderItem is a purchased line. Product fields are copied at order time so
// later catalog edits never change historical orders.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal // UnitPrice * Quantity
	ImagePath   string
	CreatedAt   time.Time
}

// NewOrderItem snapshots product into a new item of orderID
func NewOrderItem(orderID uuid.UUID, product *catalog.Product, quantity int) (*OrderItem, error) {
	if product == nil || product.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		ImagePath:   product.PrimaryImagePath,
		CreatedAt:   time.Now(),
	}, nil
}

// ShippingSnapshot is the chosen shipping option as it was quoted
type ShippingSnapshot struct {
	Category       shipping.Category
	Name           string
	DeliveryWindow string
}

// Order is the aggregate root for a placed order.
// After Place it is immutable except for Status.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     OrderNumber
	CustomerID      uuid.UUID
	Items           []OrderItem
	Subtotal        decimal.Decimal // sum of item subtotals
	ShippingPrice   decimal.Decimal
	Total           decimal.Decimal // Subtotal + ShippingPrice
	Status          OrderStatus
	Payment         Payment
	ShippingAddress valueobject.Address
	Shipping        ShippingSnapshot
}

// NewOrder starts an order. Items, address, shipping and payment are added
// before Place.
func NewOrder(number OrderNumber, customerID uuid.UUID, placedAt time.Time) (*Order, error) {
	if _, err := ParseOrderNumber(string(number)); err != nil {
		return nil, err
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		CustomerID:        customerID,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		ShippingPrice:     decimal.Zero,
		Total:             decimal.Zero,
	}
	order.CreatedAt = placedAt
	order.UpdatedAt = placedAt
	return order, nil
}

// AddItem snapshots product and quantity as a new line
func (o *Order) AddItem(product *catalog.Product, quantity int) (*OrderItem, error) {
	if o.isPlaced() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a placed order")
	}
	item, err := NewOrderItem(o.ID, product, quantity)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = o.CreatedAt
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	return item, nil
}

// SetShippingAddress snapshots the delivery address
func (o *Order) SetShippingAddress(address valueobject.Address) error {
	if address.IsEmpty() {
		return shared.ErrInvalidAddress.WithMessage("Shipping address is required")
	}
	o.ShippingAddress = address
	return nil
}

// SetShipping snapshots the chosen shipping option and its price
func (o *Order) SetShipping(option shipping.Option) error {
	if !option.Category.IsValid() {
		return shared.ErrInvalidInput.WithMessage("Unknown shipping category")
	}
	if option.Price.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("Shipping price cannot be negative")
	}
	o.Shipping = ShippingSnapshot{
		Category:       option.Category,
		Name:           option.Name,
		DeliveryWindow: option.DeliveryWindow(),
	}
	o.ShippingPrice = option.Price
	o.recalculateTotals()
	return nil
}

// SetPayment records the payment choice
func (o *Order) SetPayment(payment Payment) {
	o.Payment = payment
}

// Place completes the order and puts it in AWAITING_PAYMENT
func (o *Order) Place() error {
	if o.isPlaced() {
		return shared.NewDomainError("INVALID_STATE", "Order has already been placed")
	}
	if len(o.Items) == 0 {
		return shared.ErrEmptyCart
	}
	if o.ShippingAddress.IsEmpty() {
		return shared.ErrInvalidAddress.WithMessage("Shipping address is required")
	}
	if o.Shipping.Category == "" {
		return shared.ErrShippingNotSelected
	}
	if !o.Payment.Method.IsValid() {
		return shared.ErrInvalidPayment
	}

	o.recalculateTotals()
	o.Status = OrderStatusAwaitingPayment
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// SetStatus overwrites the status. Any valid status may follow any other;
// unknown values are rejected. Setting the current status is a no-op.
func (o *Order) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.ErrInvalidStatus.WithSubject(string(status))
	}
	if status == o.Status {
		return nil
	}

	previous := o.Status
	o.Status = status
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous, status))
	return nil
}

// PlacedAt returns the creation time
func (o *Order) PlacedAt() time.Time {
	return o.CreatedAt
}

// ShippingAddressText returns the full one-line delivery address
func (o *Order) ShippingAddressText() string {
	return o.ShippingAddress.FullAddress()
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsTerminal returns true if the order reached a final status
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsAwaitingPayment returns true before payment is confirmed
func (o *Order) IsAwaitingPayment() bool {
	return o.Status == OrderStatusAwaitingPayment
}

func (o *Order) isPlaced() bool {
	return o.Status != ""
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.ShippingPrice)
}
