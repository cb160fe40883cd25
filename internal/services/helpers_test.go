package services

import (
	"context"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// fixture is a memory store seeded with one approved seller, one pending seller,
// two customers, two listed products and one product of the pending seller.
type fixture struct {
	store    *memory.Store
	log      *zap.Logger
	seller   domain.Seller
	pending  domain.Seller
	customer domain.Customer
	other    domain.Customer
	teapot   domain.Product
	kettle   domain.Product
	hidden   domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore(), log: zaptest.NewLogger(t)}
	accounts := f.store.Accounts()

	f.seller = domain.Seller{Name: "Acme", Username: "acme", Email: "acme@example.com", IsApproved: true}
	require.NoError(t, accounts.CreateSeller(ctx, &f.seller))
	f.pending = domain.Seller{Name: "Newco", Username: "newco", Email: "newco@example.com"}
	require.NoError(t, accounts.CreateSeller(ctx, &f.pending))
	f.customer = domain.Customer{Name: "Ann", Username: "ann", Email: "ann@example.com"}
	require.NoError(t, accounts.CreateCustomer(ctx, &f.customer))
	f.other = domain.Customer{Name: "Bob", Username: "bob", Email: "bob@example.com"}
	require.NoError(t, accounts.CreateCustomer(ctx, &f.other))

	f.teapot = CreateTestProduct(t, f.store, f.seller.ID, "Teapot", "100.00", "60.00", 10)
	f.kettle = CreateTestProduct(t, f.store, f.seller.ID, "Kettle", "250.00", "150.00", 5)
	f.hidden = CreateTestProduct(t, f.store, f.pending.ID, "Hidden", "1.00", "1.00", 1)
	return f
}

func CreateTestProduct(t *testing.T, store *memory.Store, sellerID uint64, name, price, cost string, stock int64) domain.Product {
	t.Helper()
	p := domain.Product{
		SellerID:  sellerID,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		UnitCost:  decimal.RequireFromString(cost),
		Stock:     stock,
		Category:  domain.DefaultCategory,
	}
	require.NoError(t, store.Products().Create(context.Background(), &p))
	return p
}

func (f *fixture) customerPrincipal() auth.Principal { return auth.CustomerPrincipal(f.customer.ID) }
func (f *fixture) sellerPrincipal() auth.Principal   { return auth.SellerPrincipal(f.seller.ID) }

// fillCart puts qty units of product in the customer's cart.
func (f *fixture) fillCart(t *testing.T, p auth.Principal, productID uint64, qty int64) domain.CartLine {
	t.Helper()
	carts := NewCartService(f.store, f.log)
	line, _, err := carts.AddLine(context.Background(), p, productID)
	require.NoError(t, err)
	for i := int64(1); i < qty; i++ {
		line, _, err = carts.AdjustLine(context.Background(), p, line.ID, domain.Increase)
		require.NoError(t, err)
	}
	return *line
}

func (f *fixture) checkoutService() *CheckoutService {
	return NewCheckoutService(f.store, rabbitmq.NopPublisher{}, cache.NopProductCache{}, f.log)
}

var testShipping = domain.ShippingAddress{
	FirstName: "Ann",
	LastName:  "Lee",
	Address:   "1 Main St",
	City:      "Pune",
	State:     "MH",
	ZipCode:   "411001",
	Email:     "ann@example.com",
	Phone:     "5550100",
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
