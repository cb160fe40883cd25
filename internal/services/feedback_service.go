package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

type FeedbackService struct {
	store repository.Store
	log   *zap.Logger
}

func NewFeedbackService(store repository.Store, log *zap.Logger) *FeedbackService {
	return &FeedbackService{store: store, log: log}
}

// Add records a customer's note for the seller of a product they bought. The
// order must belong to the customer and contain the product.
func (s *FeedbackService) Add(ctx context.Context, p auth.Principal, orderID, productID uint64, text string) (*domain.Feedback, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, fmt.Errorf("feedback text is empty: %w", domain.ErrInvalidInput)
	}

	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil || order.CustomerID != customerID || !containsProduct(order.Items, productID) {
		return nil, domain.ErrNotFound
	}

	product, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	f := &domain.Feedback{CustomerID: customerID, SellerID: product.SellerID, Body: body}
	if err := s.store.Feedback().Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.log.Info("feedback added",
		zap.Uint64("feedback_id", f.ID),
		zap.Uint64("seller_id", f.SellerID),
		zap.Uint64("order_id", orderID),
	)
	return f, nil
}

func containsProduct(items []domain.OrderItem, productID uint64) bool {
	for _, it := range items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *FeedbackService) Delete(ctx context.Context, p auth.Principal, feedbackID uint64) error {
	sellerID, err := p.Seller()
	if err != nil {
		return err
	}

	f, err := s.store.Feedback().FindByID(ctx, feedbackID)
	if err != nil {
		return fmt.Errorf("find feedback: %w", err)
	}
	if f == nil {
		return domain.ErrNotFound
	}
	if f.SellerID != sellerID {
		return domain.ErrUnauthorized
	}
	if err := s.store.Feedback().Delete(ctx, feedbackID); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}

// ListForSeller returns feedback addressed to the seller, newest first.
func (s *FeedbackService) ListForSeller(ctx context.Context, p auth.Principal) ([]domain.Feedback, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}
	out, err := s.store.Feedback().ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}
