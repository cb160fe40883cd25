package mysql

import (
	"context"

	"storefront/internal/repository"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Products() repository.ProductRepository  { return NewProductRepository(s.db) }
func (s *Store) Carts() repository.CartRepository        { return NewCartRepository(s.db) }
func (s *Store) Orders() repository.OrderRepository      { return NewOrderRepository(s.db) }
func (s *Store) Feedback() repository.FeedbackRepository { return NewFeedbackRepository(s.db) }
func (s *Store) Accounts() repository.AccountRepository  { return NewAccountRepository(s.db) }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

var _ repository.Store = (*Store)(nil)
