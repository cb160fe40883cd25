package repository

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist.

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItems(ctx context.Context, items []domain.OrderItem) error
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]domain.Order, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]domain.Order, error)
	SellerHasItem(ctx context.Context, orderID, sellerID uint64) (bool, error)
	// UpdateStatus changes the status only if it is still `from`; false means it was not.
	UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus) (bool, error)
	ListSoldItems(ctx context.Context, from, to time.Time) ([]domain.SoldItem, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	ListApproved(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	LatestApproved(ctx context.Context, limit int) ([]domain.Product, error)
	ApprovedCategories(ctx context.Context) ([]string, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]domain.Product, error)
	// DecrementStock subtracts qty only when at least qty is in stock; false means it was not.
	DecrementStock(ctx context.Context, id uint64, qty int64) (bool, error)
}

type CartRepository interface {
	FindLine(ctx context.Context, customerID, productID uint64) (*domain.CartLine, error)
	// FindLineByID only matches lines owned by customerID.
	FindLineByID(ctx context.Context, customerID, lineID uint64) (*domain.CartLine, error)
	CreateLine(ctx context.Context, line *domain.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uint64, qty int64) error
	DeleteLine(ctx context.Context, lineID uint64) error
	// ListByCustomer returns lines oldest first with Product populated.
	ListByCustomer(ctx context.Context, customerID uint64) ([]domain.CartLine, error)
	DeleteLines(ctx context.Context, customerID uint64, lineIDs []uint64) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) error
	FindByID(ctx context.Context, id uint64) (*domain.Feedback, error)
	Delete(ctx context.Context, id uint64) error
	ListBySeller(ctx context.Context, sellerID uint64) ([]domain.Feedback, error)
}

type AccountRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	CreateSeller(ctx context.Context, s *domain.Seller) error
	FindCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error)
	FindSellerByUsername(ctx context.Context, username string) (*domain.Seller, error)
	FindCustomerByID(ctx context.Context, id uint64) (*domain.Customer, error)
	FindSellerByID(ctx context.Context, id uint64) (*domain.Seller, error)
	UpdateCustomerProfile(ctx context.Context, id uint64, profile domain.CustomerProfile) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListSellers(ctx context.Context, approved bool) ([]domain.Seller, error)
	ApproveSeller(ctx context.Context, id uint64) (bool, error)
	DeleteSeller(ctx context.Context, id uint64) (bool, error)
	DeleteCustomer(ctx context.Context, id uint64) (bool, error)
}

// Store groups the repositories so that a unit of work can span all of them.
type Store interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Feedback() FeedbackRepository
	Accounts() AccountRepository
	// WithinTx runs fn against a transactional view of the store. Every write made
	// through that view is rolled back if fn returns an error.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
