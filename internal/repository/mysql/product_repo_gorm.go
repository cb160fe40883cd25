package mysql

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) approved(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Joins("JOIN sellers ON sellers.id = products.seller_id AND sellers.is_approved = ?", true)
}

func (r *productRepo) ListApproved(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	q := r.approved(ctx)
	if query := strings.ToLower(strings.TrimSpace(filter.Query)); query != "" {
		like := "%" + escapeLike(query) + "%"
		q = q.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		q = q.Where("LOWER(products.category) = ?", strings.ToLower(category))
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.unit_price <= ?", *filter.MaxPrice)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return domain.ProductPage{}, err
	}

	size := filter.PageSize
	if size <= 0 {
		size = domain.CatalogPageSize
	}
	page, pages := domain.PageBounds(filter.Page, size, total)
	var out []domain.Product
	err := q.Select("products.*").
		Order("products.id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error
	if err != nil {
		return domain.ProductPage{}, err
	}

	return domain.ProductPage{Products: out, Page: page, TotalPages: pages, Total: total}, nil
}

func (r *productRepo) LatestApproved(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.approved(ctx).
		Select("products.*").
		Order("products.id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *productRepo) ApprovedCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.approved(ctx).
		Distinct("products.category").
		Order("products.category").
		Pluck("products.category", &out).Error
	return out, err
}

func (r *productRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("id").Find(&out).Error
	return out, err
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
