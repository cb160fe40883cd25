package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) first(q *gorm.DB) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := q.First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *cartRepo) FindLine(ctx context.Context, customerID, productID uint64) (*domain.CartLine, error) {
	return r.first(r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ? AND product_id = ?", customerID, productID))
}

func (r *cartRepo) FindLineByID(ctx context.Context, customerID, lineID uint64) (*domain.CartLine, error) {
	return r.first(r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND customer_id = ?", lineID, customerID))
}

// CreateLine reports domain.ErrConflict when the customer already has a line for the product.
func (r *cartRepo) CreateLine(ctx context.Context, line *domain.CartLine) error {
	err := r.db.WithContext(ctx).Omit("Product").Create(line).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, lineID uint64, qty int64) error {
	return r.db.WithContext(ctx).Model(&domain.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty).Error
}

func (r *cartRepo) DeleteLine(ctx context.Context, lineID uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.CartLine{}, lineID).Error
}

func (r *cartRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *cartRepo) DeleteLines(ctx context.Context, customerID uint64, lineIDs []uint64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND id IN ?", customerID, lineIDs).
		Delete(&domain.CartLine{}).Error
}
