package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (domain.Seller, domain.Product) {
	t.Helper()
	ctx := context.Background()
	seller := domain.Seller{Name: "Acme", Username: "acme", Email: "acme@example.com", IsApproved: true}
	require.NoError(t, s.Accounts().CreateSeller(ctx, &seller))
	product := domain.Product{
		SellerID:  seller.ID,
		Name:      "Teapot",
		UnitPrice: decimal.NewFromInt(100),
		UnitCost:  decimal.NewFromInt(60),
		Stock:     5,
		Category:  "Kitchen",
	}
	require.NoError(t, s.Products().Create(ctx, &product))
	return seller, product
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, product := seed(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		order := &domain.Order{CustomerID: 1, TotalPrice: decimal.NewFromInt(150)}
		require.NoError(t, tx.Orders().Create(ctx, order))
		ok, err := tx.Products().DecrementStock(ctx, product.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)

	orders, err := s.Orders().ListByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStore_WithinTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, product := seed(t, s)

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		_, err := tx.Products().DecrementStock(ctx, product.ID, 5)
		return err
	})
	require.NoError(t, err)

	got, _ := s.Products().FindByID(ctx, product.ID)
	assert.Equal(t, int64(0), got.Stock)
}

func TestProductRepo_DecrementStockKeepsFloor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, product := seed(t, s)

	ok, err := s.Products().DecrementStock(ctx, product.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := s.Products().FindByID(ctx, product.ID)
	assert.Equal(t, int64(5), got.Stock)
}

func TestProductRepo_ListApprovedFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seller, _ := seed(t, s)

	pending := domain.Seller{Name: "Pending", Username: "pending", Email: "p@example.com"}
	require.NoError(t, s.Accounts().CreateSeller(ctx, &pending))
	hidden := domain.Product{SellerID: pending.ID, Name: "Hidden teapot", UnitPrice: decimal.NewFromInt(1), Category: "Kitchen"}
	require.NoError(t, s.Products().Create(ctx, &hidden))

	cheap := domain.Product{SellerID: seller.ID, Name: "Mug", Description: "Fits a TEAPOT pour", UnitPrice: decimal.NewFromInt(20), Category: "kitchen"}
	require.NoError(t, s.Products().Create(ctx, &cheap))
	other := domain.Product{SellerID: seller.ID, Name: "Lamp", UnitPrice: decimal.NewFromInt(20), Category: "Home"}
	require.NoError(t, s.Products().Create(ctx, &other))

	maxPrice := decimal.NewFromInt(50)
	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{name: "no filter", filter: domain.ProductFilter{}, want: []string{"Teapot", "Mug", "Lamp"}},
		{name: "query matches name or description", filter: domain.ProductFilter{Query: "teapot"}, want: []string{"Teapot", "Mug"}},
		{name: "category ignores case", filter: domain.ProductFilter{Category: "KITCHEN"}, want: []string{"Teapot", "Mug"}},
		{name: "max price inclusive", filter: domain.ProductFilter{MaxPrice: &maxPrice}, want: []string{"Mug", "Lamp"}},
		{name: "page clamps to last", filter: domain.ProductFilter{Page: 9, PageSize: 2}, want: []string{"Lamp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.Products().ListApproved(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, p := range page.Products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProductRepo_DeleteCascadesCartLines(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, product := seed(t, s)

	line := domain.CartLine{CustomerID: 7, ProductID: product.ID, Quantity: 1}
	require.NoError(t, s.Carts().CreateLine(ctx, &line))
	require.NoError(t, s.Products().Delete(ctx, product.ID))

	lines, err := s.Carts().ListByCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartRepo_CreateLineConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, product := seed(t, s)

	require.NoError(t, s.Carts().CreateLine(ctx, &domain.CartLine{CustomerID: 7, ProductID: product.ID, Quantity: 1}))
	err := s.Carts().CreateLine(ctx, &domain.CartLine{CustomerID: 7, ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOrderRepo_ListSoldItemsWindow(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seller, product := seed(t, s)

	inside := &domain.Order{CustomerID: 1, CreatedAt: time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)}
	outside := &domain.Order{CustomerID: 1, CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Orders().Create(ctx, inside))
	require.NoError(t, s.Orders().Create(ctx, outside))
	require.NoError(t, s.Orders().CreateItems(ctx, []domain.OrderItem{
		{OrderID: inside.ID, ProductID: product.ID, SellerID: seller.ID, ProductName: product.Name, SellerName: seller.Name,
			Quantity: 2, UnitPriceSnapshot: decimal.NewFromInt(100), UnitCostSnapshot: decimal.NewFromInt(60)},
		{OrderID: outside.ID, ProductID: product.ID, SellerID: seller.ID, ProductName: product.Name, SellerName: seller.Name,
			Quantity: 1, UnitPriceSnapshot: decimal.NewFromInt(100), UnitCostSnapshot: decimal.NewFromInt(60)},
	}))

	items, err := s.Orders().ListSoldItems(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inside.ID, items[0].OrderID)
	assert.Equal(t, "Teapot", items[0].ProductName)
	assert.Equal(t, seller.Name, items[0].SellerName)
}

func TestAccountRepo_DeleteSellerCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seller, product := seed(t, s)

	require.NoError(t, s.Carts().CreateLine(ctx, &domain.CartLine{CustomerID: 7, ProductID: product.ID, Quantity: 1}))
	fb := domain.Feedback{CustomerID: 7, SellerID: seller.ID, Body: "great"}
	require.NoError(t, s.Feedback().Create(ctx, &fb))

	deleted, err := s.Accounts().DeleteSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	p, _ := s.Products().FindByID(ctx, product.ID)
	assert.Nil(t, p)
	lines, _ := s.Carts().ListByCustomer(ctx, 7)
	assert.Empty(t, lines)
	left, _ := s.Feedback().FindByID(ctx, fb.ID)
	assert.Nil(t, left)

	deleted, err = s.Accounts().DeleteSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAccountRepo_UpdateCustomerProfile(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c := domain.Customer{Name: "Ann", Username: "ann", Email: "ann@example.com", Address: "1 Main St", Phone: "555"}
	require.NoError(t, s.Accounts().CreateCustomer(ctx, &c))

	ok, err := s.Accounts().UpdateCustomerProfile(ctx, c.ID, domain.CustomerProfile{Name: "Ann Lee", Phone: "777"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Accounts().FindCustomerByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, "777", got.Phone)
	assert.Empty(t, got.Address)
	assert.Equal(t, "ann", got.Username)

	ok, err = s.Accounts().UpdateCustomerProfile(ctx, 999, domain.CustomerProfile{Name: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}
