package checkout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckoutService converts carts into orders.
// Stock verification, stock decrement, order number reservation and order
// persistence happen in one transaction: either all of them or none.
type CheckoutService struct {
	txScope        TransactionScope
	sessions       *cartapp.Sessions
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txScope TransactionScope, sessions *cartapp.Sessions, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		txScope:  txScope,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for order placed notifications
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling. Keys are remembered
// for ttl after the order is placed.
func (s *CheckoutService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	s.idempotencyTTL = ttl
}

// SetClock replaces the clock used to date orders and their numbers
func (s *CheckoutService) SetClock(now func() time.Time) {
	s.now = now
}

// Checkout places an order from the session cart and its selected shipping option.
// The cart and its quote are cleared only when the order was placed.
//
// With an idempotency key, a retry of a completed checkout returns the order
// it placed and a retry of one still running fails with a conflict.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, customerID uuid.UUID, req CheckoutRequest) (*tradeapp.OrderResponse, error) {
	if s.idempotency == nil || req.IdempotencyKey == "" {
		return s.checkout(ctx, sessionID, customerID, req)
	}

	key := customerID.String() + ":" + req.IdempotencyKey
	result, reserved, err := s.idempotency.Reserve(ctx, key, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, checking out without it", zap.Error(err))
		return s.checkout(ctx, sessionID, customerID, req)
	}
	if !reserved {
		return s.replay(ctx, customerID, result)
	}

	response, err := s.checkout(ctx, sessionID, customerID, req)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("failed to release idempotency key", zap.Error(releaseErr))
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, key, response.ID.String(), s.idempotencyTTL); err != nil {
		s.logger.Warn("failed to record idempotency key",
			zap.String("order_id", response.ID.String()),
			zap.Error(err),
		)
	}
	return response, nil
}

// replay returns the order recorded for a repeated idempotency key
func (s *CheckoutService) replay(ctx context.Context, customerID uuid.UUID, result string) (*tradeapp.OrderResponse, error) {
	if result == "" {
		return nil, shared.ErrConcurrencyConflict.WithMessage("A checkout with this idempotency key is in progress")
	}
	orderID, err := uuid.Parse(result)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %q: %w", result, err)
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, shared.ErrOrderNotFound.WithSubject(orderID.String())
	}

	s.logger.Info("checkout replayed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber.String()),
	)
	response := tradeapp.ToOrderResponse(order)
	return &response, nil
}

func (s *CheckoutService) checkout(ctx context.Context, sessionID string, customerID uuid.UUID, req CheckoutRequest) (*tradeapp.OrderResponse, error) {
	payment, err := trade.NewPayment(trade.PaymentMethod(req.PaymentMethod), req.Installments)
	if err != nil {
		return nil, err
	}

	var placed *trade.Order
	_, err = s.sessions.Update(ctx, sessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}
		option, ok := c.SelectedShipping()
		if !ok {
			return shared.ErrShippingNotSelected
		}

		cartLines := c.Lines()
		lines := make([]LineInput, len(cartLines))
		for i, l := range cartLines {
			lines[i] = LineInput{ProductID: l.ProductID, Quantity: l.Quantity}
		}

		order, err := s.PlaceOrder(ctx, PlaceOrderInput{
			CustomerID: customerID,
			AddressID:  req.AddressID,
			Lines:      lines,
			Shipping:   option,
			Payment:    payment,
		})
		if err != nil {
			return err
		}
		placed = order
		c.Clear()
		return nil
	})
	if err != nil {
		if placed == nil {
			return nil, err
		}
		// the order is committed either way
		s.logger.Warn("order placed but session cart was not cleared",
			zap.String("order_number", placed.OrderNumber.String()),
			zap.Error(err),
		)
	}

	response := tradeapp.ToOrderResponse(placed)
	return &response, nil
}

// PlaceOrder validates and persists an order atomically.
//
// Inside one transaction it checks the address belongs to the customer,
// locks each product and verifies its stock, reserves the next order number,
// snapshots products, address and shipping into the order, decrements stock
// and saves the order as AWAITING_PAYMENT. Any failure leaves stock and order
// numbering untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*trade.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, input.CustomerID.String(),
		telemetry.SpanAttrPaymentMethod, string(input.Payment.Method),
		telemetry.SpanAttrShipping, string(input.Shipping.Category),
	)

	order, err := s.placeOrder(ctx, input)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, order.OrderNumber.String(),
		telemetry.SpanAttrAmount, order.Total.StringFixed(2),
		telemetry.SpanAttrItemCount, order.ItemCount(),
	)
	telemetry.SetOK(span)
	return order, nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, input PlaceOrderInput) (*trade.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Customer ID is required")
	}
	lines, err := consolidateLines(input.Lines)
	if err != nil {
		return nil, err
	}
	if !input.Payment.Method.IsValid() {
		return nil, shared.ErrInvalidPayment
	}

	placedAt := s.now()
	var order *trade.Order

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		address, err := s.loadAddress(ctx, repos.AddressRepo(), input.AddressID)
		if err != nil {
			return err
		}
		if err := address.EnsureUsableBy(input.CustomerID); err != nil {
			return err
		}

		products, err := lockProducts(ctx, repos.ProductRepo(), lines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			product := products[line.ProductID]
			if product.Stock < line.Quantity {
				return catalog.InsufficientStock(product, line.Quantity)
			}
		}

		seq, err := repos.OrderRepo().NextOrderSequence(ctx)
		if err != nil {
			return err
		}
		number, err := trade.NewOrderNumber(placedAt, seq)
		if err != nil {
			return err
		}

		o, err := trade.NewOrder(number, input.CustomerID, placedAt)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := o.AddItem(products[line.ProductID], line.Quantity); err != nil {
				return err
			}
		}
		if err := o.SetShippingAddress(address.Location); err != nil {
			return err
		}
		if err := o.SetShipping(input.Shipping); err != nil {
			return err
		}
		o.SetPayment(input.Payment)
		if err := o.Place(); err != nil {
			return err
		}

		for _, line := range lines {
			if err := repos.ProductRepo().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.String("total", order.Total.StringFixed(2)),
	)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
			s.logger.Error("failed to publish order placed event",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
	order.ClearDomainEvents()

	return order, nil
}

func (s *CheckoutService) loadAddress(ctx context.Context, store customer.AddressStore, id uuid.UUID) (*customer.Address, error) {
	if id == uuid.Nil {
		return nil, shared.ErrAddressNotFound
	}
	address, err := store.Get(ctx, id)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.ErrAddressNotFound.WithSubject(id.String())
		}
		return nil, err
	}
	return address, nil
}

// lockProducts locks product rows in ID order so concurrent checkouts
// sharing products cannot deadlock.
func lockProducts(ctx context.Context, repo catalog.ProductRepository, lines []LineInput) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range ids {
		product, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return nil, shared.ErrProductNotFound.WithSubject(id.String())
			}
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

// consolidateLines merges repeated products, keeping first-seen order
func consolidateLines(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	merged := make([]LineInput, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.ErrInvalidInput.WithMessage("Product ID is required")
		}
		if line.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity.WithSubject(line.ProductID.String())
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
