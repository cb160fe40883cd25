package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/metrics"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CatalogService struct {
	store repository.Store
	cache cache.ProductCache
	log   *zap.Logger
	group singleflight.Group
}

func NewCatalogService(store repository.Store, pc cache.ProductCache, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, cache: pc, log: log}
}

// List pages through products of approved sellers, 30 per page.
func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return domain.ProductPage{}, fmt.Errorf("max price: %w", domain.ErrInvalidInput)
	}
	filter.PageSize = domain.CatalogPageSize
	page, err := s.store.Products().ListApproved(ctx, filter)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	return page, nil
}

func (s *CatalogService) Latest(ctx context.Context) ([]domain.Product, error) {
	out, err := s.store.Products().LatestApproved(ctx, domain.LatestLimit)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}
	return out, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.store.Products().ApprovedCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Get reads through the product cache. Concurrent misses for one id share a
// single database lookup. Products of unapproved sellers are not found.
func (s *CatalogService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	if p, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn("product cache read failed", zap.Uint64("product_id", id), zap.Error(err))
	} else if p != nil {
		metrics.RecordProductCache("hit")
		return p, nil
	}
	metrics.RecordProductCache("miss")

	v, err, _ := s.group.Do(strconv.FormatUint(id, 10), func() (any, error) {
		p, err := s.store.Products().FindByID(ctx, id)
		if err != nil || p == nil {
			return p, err
		}
		seller, err := s.store.Accounts().FindSellerByID(ctx, p.SellerID)
		if err != nil {
			return nil, err
		}
		if seller == nil || !seller.IsApproved {
			return (*domain.Product)(nil), nil
		}
		if err := s.cache.Set(ctx, p); err != nil {
			s.log.Warn("product cache write failed", zap.Uint64("product_id", id), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	p, _ := v.(*domain.Product)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// WarmCache preloads the latest products so the landing page starts hot.
func (s *CatalogService) WarmCache(ctx context.Context) error {
	products, err := s.Latest(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if err := s.cache.Set(ctx, &products[i]); err != nil {
			return fmt.Errorf("cache product %d: %w", products[i].ID, err)
		}
	}
	s.log.Info("product cache warmed", zap.Int("products", len(products)))
	return nil
}

type ProductInput struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Stock       int64
	Category    string
	PhotoRef    string
}

func (in ProductInput) normalize() (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = domain.DefaultCategory
	}

	switch {
	case in.Name == "":
		return in, fmt.Errorf("product name is required: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(in.Name) > 30:
		return in, fmt.Errorf("product name longer than 30: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(in.Description) > 100:
		return in, fmt.Errorf("product description longer than 100: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(in.Category) > 50:
		return in, fmt.Errorf("product category longer than 50: %w", domain.ErrInvalidInput)
	case in.UnitPrice.IsNegative(), in.UnitCost.IsNegative():
		return in, fmt.Errorf("product price and cost must not be negative: %w", domain.ErrInvalidInput)
	case in.Stock < 0:
		return in, fmt.Errorf("product stock must not be negative: %w", domain.ErrInvalidInput)
	}
	return in, nil
}

func (in ProductInput) apply(p *domain.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.UnitPrice = in.UnitPrice.Round(2)
	p.UnitCost = in.UnitCost.Round(2)
	p.Stock = in.Stock
	p.Category = in.Category
	p.PhotoRef = in.PhotoRef
}

func (s *CatalogService) CreateProduct(ctx context.Context, p auth.Principal, in ProductInput) (*domain.Product, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	product := &domain.Product{SellerID: sellerID}
	in.apply(product)
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("product created", zap.Uint64("product_id", product.ID), zap.Uint64("seller_id", sellerID))
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p auth.Principal, id uint64, in ProductInput) (*domain.Product, error) {
	product, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	in.apply(product)
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct also drops the product from every cart. Past order items keep
// their snapshots.
func (s *CatalogService) DeleteProduct(ctx context.Context, p auth.Principal, id uint64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, id)
	s.log.Info("product deleted", zap.Uint64("product_id", id))
	return nil
}

func (s *CatalogService) ListOwn(ctx context.Context, p auth.Principal) ([]domain.Product, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}
	out, err := s.store.Products().ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return out, nil
}

func (s *CatalogService) owned(ctx context.Context, p auth.Principal, id uint64) (*domain.Product, error) {
	sellerID, err := p.Seller()
	if err != nil {
		return nil, err
	}
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.SellerID != sellerID {
		return nil, domain.ErrUnauthorized
	}
	return product, nil
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...uint64) {
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.log.Warn("failed to invalidate product cache", zap.Uint64s("product_ids", ids), zap.Error(err))
	}
}
