package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/metrics"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type CheckoutService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	cache     cache.ProductCache
	log       *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(store repository.Store, pub rabbit.PublisherInterface, pc cache.ProductCache, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		store:     store,
		publisher: pub,
		cache:     pc,
		log:       log,
		now:       time.Now,
	}
}

// Checkout turns the customer's cart into an order in one transaction: the order
// with its price snapshots, the stock decrements, the payment record and the
// emptied cart either all persist or none do.
func (s *CheckoutService) Checkout(ctx context.Context, p auth.Principal, req domain.CheckoutRequest) (*domain.Order, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer().Start(ctx, "Checkout")
	defer span.End()

	var (
		order   *domain.Order
		payment *domain.Payment
		items   []domain.OrderItem
	)
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		lines, err := tx.Carts().ListByCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}
		for _, l := range lines {
			if l.Product == nil {
				return fmt.Errorf("cart line %d: product %d: %w", l.ID, l.ProductID, domain.ErrNotFound)
			}
		}

		totals := domain.ComputeTotals(lines)

		order = &domain.Order{
			CustomerID: customerID,
			TotalPrice: totals.GrandTotal,
			Status:     domain.StatusPlaced,
			Shipping:   req.Shipping,
			CreatedAt:  s.now(),
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		sellerNames := map[uint64]string{}
		items = make([]domain.OrderItem, 0, len(lines))
		for _, l := range lines {
			sellerID := l.Product.SellerID
			name, seen := sellerNames[sellerID]
			if !seen {
				seller, err := tx.Accounts().FindSellerByID(ctx, sellerID)
				if err != nil {
					return fmt.Errorf("find seller: %w", err)
				}
				if seller != nil {
					name = seller.Name
				}
				sellerNames[sellerID] = name
			}
			items = append(items, domain.OrderItem{
				OrderID:           order.ID,
				ProductID:         l.ProductID,
				SellerID:          sellerID,
				ProductName:       l.Product.Name,
				SellerName:        name,
				Quantity:          l.Quantity,
				UnitPriceSnapshot: l.Product.UnitPrice,
				UnitCostSnapshot:  l.Product.UnitCost,
			})
		}
		if err := tx.Orders().CreateItems(ctx, items); err != nil {
			return err
		}

		for _, l := range lines {
			ok, err := tx.Products().DecrementStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%s: %w", l.Product.Name, domain.ErrInsufficientStock)
			}
		}

		payment = &domain.Payment{
			OrderID:     order.ID,
			CustomerID:  customerID,
			ExternalRef: req.PaymentRef,
			Amount:      totals.GrandTotal,
			CreatedAt:   order.CreatedAt,
		}
		if err := tx.Orders().CreatePayment(ctx, payment); err != nil {
			return err
		}

		lineIDs := make([]uint64, len(lines))
		for i, l := range lines {
			lineIDs[i] = l.ID
		}
		if err := tx.Carts().DeleteLines(ctx, customerID, lineIDs); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recordFailure(err, customerID)
		if !errors.Is(err, domain.ErrEmptyCart) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "checkout failed")
		}
		return nil, err
	}

	order.Items = items
	order.Payment = payment
	metrics.RecordCheckout("placed")
	span.SetAttributes(
		attribute.Int64("order.id", int64(order.ID)),
		attribute.String("order.total", order.TotalPrice.StringFixed(2)),
	)
	s.log.Info("order placed",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("customer_id", customerID),
		zap.String("total", order.TotalPrice.StringFixed(2)),
		zap.Int("items", len(items)),
	)

	productIDs := make([]uint64, len(items))
	for i, it := range items {
		productIDs[i] = it.ProductID
	}
	if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
		s.log.Warn("failed to invalidate product cache", zap.Error(err))
	}

	go publishOrderEvent(ctx, s.publisher, s.log, domain.EventOrderPlaced, domain.OrderEvent{
		OrderID:    order.ID,
		CustomerID: customerID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		OccurredAt: order.CreatedAt,
	})

	return order, nil
}

func (s *CheckoutService) recordFailure(err error, customerID uint64) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		metrics.RecordCheckout("empty")
		s.log.Info("checkout with empty cart", zap.Uint64("customer_id", customerID))
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.RecordCheckout("insufficient_stock")
		s.log.Info("checkout rejected", zap.Uint64("customer_id", customerID), zap.Error(err))
	default:
		metrics.RecordCheckout("error")
		s.log.Error("checkout failed", zap.Uint64("customer_id", customerID), zap.Error(err))
	}
}
