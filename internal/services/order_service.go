package services

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/metrics"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface, log *zap.Logger) *OrderService {
	return &OrderService{store: store, publisher: pub, log: log, now: time.Now}
}

// ListForCustomer returns the customer's orders newest first, without items.
func (s *OrderService) ListForCustomer(ctx context.Context, p auth.Principal) ([]domain.Order, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}
	out, err := s.store.Orders().ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// Detail returns one of the customer's orders with its items and payment.
func (s *OrderService) Detail(ctx context.Context, p auth.Principal, orderID uint64) (*domain.Order, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}
	o, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if o == nil || o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListForSeller returns orders containing at least one of the seller's products.
func (s *OrderService) ListForSeller(ctx context.Context, p auth.Principal) ([]domain.Order, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}
	out, err := s.store.Orders().ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller orders: %w", err)
	}
	return out, nil
}

func (s *OrderService) Confirm(ctx context.Context, p auth.Principal, orderID uint64) (*domain.Order, error) {
	return s.transition(ctx, p, orderID, domain.StatusConfirmed, domain.EventOrderConfirmed)
}

// Cancel does not put stock back.
func (s *OrderService) Cancel(ctx context.Context, p auth.Principal, orderID uint64) (*domain.Order, error) {
	return s.transition(ctx, p, orderID, domain.StatusCancelled, domain.EventOrderCancelled)
}

func (s *OrderService) transition(ctx context.Context, p auth.Principal, orderID uint64, to domain.OrderStatus, pattern string) (*domain.Order, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer().Start(ctx, "OrderTransition")
	defer span.End()

	orders := s.store.Orders()
	o, err := orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	owns, err := orders.SellerHasItem(ctx, orderID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("check order seller: %w", err)
	}
	if !owns {
		return nil, domain.ErrNotFound
	}

	if !o.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("order %d is %s: %w", orderID, o.Status, domain.ErrInvalidTransition)
	}
	ok, err := orders.UpdateStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("order %d changed concurrently: %w", orderID, domain.ErrInvalidTransition)
	}
	o.Status = to

	metrics.RecordOrderTransition(string(to))
	s.log.Info("order status changed",
		zap.Uint64("order_id", orderID),
		zap.Uint64("seller_id", sellerID),
		zap.String("status", string(to)),
	)

	go publishOrderEvent(ctx, s.publisher, s.log, pattern, domain.OrderEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		SellerID:   sellerID,
		Status:     to,
		TotalPrice: o.TotalPrice,
		OccurredAt: s.now(),
	})
	return o, nil
}
