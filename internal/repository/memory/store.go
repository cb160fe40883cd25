// Package memory is an in-process implementation of repository.Store. It backs
// the "memory" storage driver and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type tables struct {
	customers map[uint64]domain.Customer
	sellers   map[uint64]domain.Seller
	products  map[uint64]domain.Product
	cart      map[uint64]domain.CartLine
	orders    map[uint64]domain.Order
	items     map[uint64]domain.OrderItem
	payments  map[uint64]domain.Payment
	feedback  map[uint64]domain.Feedback
	seq       map[string]uint64
}

func newTables() *tables {
	return &tables{
		customers: map[uint64]domain.Customer{},
		sellers:   map[uint64]domain.Seller{},
		products:  map[uint64]domain.Product{},
		cart:      map[uint64]domain.CartLine{},
		orders:    map[uint64]domain.Order{},
		items:     map[uint64]domain.OrderItem{},
		payments:  map[uint64]domain.Payment{},
		feedback:  map[uint64]domain.Feedback{},
		seq:       map[string]uint64{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		customers: maps.Clone(t.customers),
		sellers:   maps.Clone(t.sellers),
		products:  maps.Clone(t.products),
		cart:      maps.Clone(t.cart),
		orders:    maps.Clone(t.orders),
		items:     maps.Clone(t.items),
		payments:  maps.Clone(t.payments),
		feedback:  maps.Clone(t.feedback),
		seq:       maps.Clone(t.seq),
	}
}

func (t *tables) next(table string) uint64 {
	t.seq[table]++
	return t.seq[table]
}

type db struct {
	mu  sync.Mutex
	t   *tables
	now func() time.Time
}

// Store is safe for concurrent use. A transaction holds the store lock until it
// finishes, so transactions are serialized.
type Store struct {
	db   *db
	inTx bool
}

func NewStore() *Store {
	return &Store{db: &db{t: newTables(), now: time.Now}}
}

// SetClock replaces the clock used for default timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.now = now
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.db.now()
	}
	return t
}

func (s *Store) Products() repository.ProductRepository  { return &productRepo{s} }
func (s *Store) Carts() repository.CartRepository        { return &cartRepo{s} }
func (s *Store) Orders() repository.OrderRepository      { return &orderRepo{s} }
func (s *Store) Feedback() repository.FeedbackRepository { return &feedbackRepo{s} }
func (s *Store) Accounts() repository.AccountRepository  { return &accountRepo{s} }

// WithinTx restores the tables as they were before fn when fn returns an error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	saved := s.db.t.clone()
	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.t = saved
		return err
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
