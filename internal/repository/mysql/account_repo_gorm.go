package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *accountRepo) CreateSeller(ctx context.Context, s *domain.Seller) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *accountRepo) FindCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *accountRepo) FindSellerByUsername(ctx context.Context, username string) (*domain.Seller, error) {
	var s domain.Seller
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *accountRepo) FindCustomerByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *accountRepo) FindSellerByID(ctx context.Context, id uint64) (*domain.Seller, error) {
	var s domain.Seller
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *accountRepo) taken(ctx context.Context, column, value string) (bool, error) {
	for _, model := range []any{&domain.Customer{}, &domain.Seller{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Where(column+" = ?", value).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// UsernameTaken checks customers and sellers; a username identifies one account of either kind.
func (r *accountRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.taken(ctx, "username", username)
}

func (r *accountRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.taken(ctx, "email", email)
}

func (r *accountRepo) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *accountRepo) ListSellers(ctx context.Context, approved bool) ([]domain.Seller, error) {
	var out []domain.Seller
	err := r.db.WithContext(ctx).Where("is_approved = ?", approved).Order("id").Find(&out).Error
	return out, err
}

// ApproveSeller is idempotent; MySQL reports zero affected rows when the flag is already set.
func (r *accountRepo) ApproveSeller(ctx context.Context, id uint64) (bool, error) {
	seller, err := r.FindSellerByID(ctx, id)
	if err != nil || seller == nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Model(&domain.Seller{}).Where("id = ?", id).Update("is_approved", true).Error
	return err == nil, err
}

// UpdateCustomerProfile writes every profile field, empty ones included.
func (r *accountRepo) UpdateCustomerProfile(ctx context.Context, id uint64, profile domain.CustomerProfile) (bool, error) {
	c, err := r.FindCustomerByID(ctx, id)
	if err != nil || c == nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Updates(map[string]any{
		"name":      profile.Name,
		"address":   profile.Address,
		"phone":     profile.Phone,
		"photo_ref": profile.PhotoRef,
	}).Error
	return err == nil, err
}

// DeleteSeller removes the seller with their products and the feedback addressed
// to them; order items keep their snapshots.
func (r *accountRepo) DeleteSeller(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Seller{}, id)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		deleted = true
		if err := tx.Where("seller_id = ?", id).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return tx.Where("seller_id = ?", id).Delete(&domain.Feedback{}).Error
	})
	return deleted, err
}

// DeleteCustomer removes the customer and their cart; orders stay for reporting.
func (r *accountRepo) DeleteCustomer(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Customer{}, id)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		deleted = true
		return tx.Where("customer_id = ?", id).Delete(&domain.CartLine{}).Error
	})
	return deleted, err
}
