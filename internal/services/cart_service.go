package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

type CartService struct {
	store repository.Store
	log   *zap.Logger
}

func NewCartService(store repository.Store, log *zap.Logger) *CartService {
	return &CartService{store: store, log: log}
}

// AddLine puts one unit of a product in the customer's cart. When the product is
// already there the existing line is returned untouched and created is false.
// Products of sellers awaiting approval are not found, as in the catalog.
func (s *CartService) AddLine(ctx context.Context, p auth.Principal, productID uint64) (*domain.CartLine, bool, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, false, err
	}

	product, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, false, domain.ErrNotFound
	}
	seller, err := s.store.Accounts().FindSellerByID(ctx, product.SellerID)
	if err != nil {
		return nil, false, fmt.Errorf("find seller: %w", err)
	}
	if seller == nil || !seller.IsApproved {
		return nil, false, domain.ErrNotFound
	}

	carts := s.store.Carts()
	existing, err := carts.FindLine(ctx, customerID, productID)
	if err != nil {
		return nil, false, fmt.Errorf("find cart line: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	line := &domain.CartLine{CustomerID: customerID, ProductID: productID, Quantity: 1}
	if err := carts.CreateLine(ctx, line); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, false, fmt.Errorf("create cart line: %w", err)
		}
		// A concurrent add won the unique key.
		existing, err = carts.FindLine(ctx, customerID, productID)
		if err != nil || existing == nil {
			return nil, false, fmt.Errorf("find cart line: %w", errors.Join(domain.ErrConflict, err))
		}
		return existing, false, nil
	}
	line.Product = product

	s.log.Debug("cart line added",
		zap.Uint64("customer_id", customerID),
		zap.Uint64("product_id", productID),
		zap.Uint64("line_id", line.ID),
	)
	return line, true, nil
}

// AdjustLine moves a line's quantity by one. Decreasing a line of quantity one
// deletes it, reported by removed.
func (s *CartService) AdjustLine(ctx context.Context, p auth.Principal, lineID uint64, dir domain.AdjustDirection) (line *domain.CartLine, removed bool, err error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, false, err
	}
	if dir != domain.Increase && dir != domain.Decrease {
		return nil, false, domain.ErrInvalidInput
	}

	carts := s.store.Carts()
	line, err = carts.FindLineByID(ctx, customerID, lineID)
	if err != nil {
		return nil, false, fmt.Errorf("find cart line: %w", err)
	}
	if line == nil {
		return nil, false, domain.ErrNotFound
	}

	if dir == domain.Decrease && line.Quantity <= 1 {
		if err := carts.DeleteLine(ctx, line.ID); err != nil {
			return nil, false, fmt.Errorf("delete cart line: %w", err)
		}
		return nil, true, nil
	}

	qty := line.Quantity + int64(dir)
	if err := carts.UpdateQuantity(ctx, line.ID, qty); err != nil {
		return nil, false, fmt.Errorf("update cart line: %w", err)
	}
	line.Quantity = qty
	return line, false, nil
}

func (s *CartService) RemoveLine(ctx context.Context, p auth.Principal, lineID uint64) error {
	customerID, err := p.Customer()
	if err != nil {
		return err
	}

	line, err := s.store.Carts().FindLineByID(ctx, customerID, lineID)
	if err != nil {
		return fmt.Errorf("find cart line: %w", err)
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if err := s.store.Carts().DeleteLine(ctx, line.ID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// View returns the cart lines oldest first with their current prices and totals.
// It doubles as the checkout preview.
func (s *CartService) View(ctx context.Context, p auth.Principal) (domain.CartView, error) {
	customerID, err := p.Customer()
	if err != nil {
		return domain.CartView{}, err
	}
	lines, err := s.store.Carts().ListByCustomer(ctx, customerID)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("list cart: %w", err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return domain.CartView{Lines: lines, Totals: domain.ComputeTotals(lines)}, nil
}

func (s *CartService) Totals(ctx context.Context, p auth.Principal) (domain.CartTotals, error) {
	view, err := s.View(ctx, p)
	if err != nil {
		return domain.CartTotals{}, err
	}
	return view.Totals, nil
}
