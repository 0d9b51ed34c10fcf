package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderService handles order queries and the back-office status overwrite
type OrderService struct {
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for status change notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetForCustomer retrieves an order only if customerID placed it.
// Orders of other customers are reported as not found.
func (s *OrderService) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, shared.ErrOrderNotFound.WithSubject(orderID.String())
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its public number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	number, err := trade.ParseOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByOrderNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListForCustomer lists a customer's orders, newest first
func (s *OrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderListItemResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, nil
}

// SetStatus overwrites the status of an order.
// Any known status is accepted regardless of the current one; unusual jumps are logged.
func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, req SetStatusRequest) (*OrderResponse, error) {
	status, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.SetStatus(status); err != nil {
		return nil, err
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		response := ToOrderResponse(order)
		return &response, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	if !previous.CanTransitionTo(status) {
		s.logger.Warn("order status overwritten outside the regular lifecycle",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber.String()),
			zap.String("from", string(previous)),
			zap.String("to", string(status)),
		)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish order status event",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
	order.ClearDomainEvents()

	response := ToOrderResponse(order)
	return &response, nil
}
