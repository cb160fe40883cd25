package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(order)
	if result.Error != nil {
		return fmt.Errorf("insert order: %w", result.Error)
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) CreateItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r *orderRepo) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Payment").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *orderRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]domain.Order, error) {
	sellerOrders := r.db.Model(&domain.OrderItem{}).
		Select("order_id").
		Where("seller_id = ?", sellerID)

	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sellerOrders).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *orderRepo) SellerHasItem(ctx context.Context, orderID, sellerID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		Count(&n).Error
	return n > 0, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListSoldItems reads only the checkout snapshots, so deleted products and sellers
// still report under their own id and name.
func (r *orderRepo) ListSoldItems(ctx context.Context, from, to time.Time) ([]domain.SoldItem, error) {
	var out []domain.SoldItem
	err := r.db.WithContext(ctx).Table("order_items").
		Select("order_items.order_id, order_items.product_id, order_items.product_name, "+
			"order_items.seller_id, order_items.seller_name, order_items.quantity, "+
			"order_items.unit_price_snapshot AS unit_price, order_items.unit_cost_snapshot AS unit_cost").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Order("order_items.id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
