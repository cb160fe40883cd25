package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         func(*fixture) uint64
		setupMocks func(*mocks.MockProductCache, *fixture)
		wantName   string
		wantErr    error
	}{
		{
			name: "cache hit",
			id:   func(f *fixture) uint64 { return f.teapot.ID },
			setupMocks: func(pc *mocks.MockProductCache, f *fixture) {
				cached := f.teapot
				cached.Name = "Cached teapot"
				pc.On("Get", mock.Anything, f.teapot.ID).Return(&cached, nil)
			},
			wantName: "Cached teapot",
		},
		{
			name: "cache miss fills cache",
			id:   func(f *fixture) uint64 { return f.teapot.ID },
			setupMocks: func(pc *mocks.MockProductCache, f *fixture) {
				pc.On("Get", mock.Anything, f.teapot.ID).Return(nil, nil)
				pc.On("Set", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool { return p.ID == f.teapot.ID })).Return(nil)
			},
			wantName: "Teapot",
		},
		{
			name: "cache error falls back to store",
			id:   func(f *fixture) uint64 { return f.kettle.ID },
			setupMocks: func(pc *mocks.MockProductCache, f *fixture) {
				pc.On("Get", mock.Anything, f.kettle.ID).Return(nil, errors.New("redis down"))
				pc.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))
			},
			wantName: "Kettle",
		},
		{
			name: "unknown product",
			id:   func(*fixture) uint64 { return 999 },
			setupMocks: func(pc *mocks.MockProductCache, f *fixture) {
				pc.On("Get", mock.Anything, uint64(999)).Return(nil, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "pending seller's product",
			id:   func(f *fixture) uint64 { return f.hidden.ID },
			setupMocks: func(pc *mocks.MockProductCache, f *fixture) {
				pc.On("Get", mock.Anything, f.hidden.ID).Return(nil, nil)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			pc := new(mocks.MockProductCache)
			tt.setupMocks(pc, f)

			s := NewCatalogService(f.store, pc, f.log)
			got, err := s.Get(context.Background(), tt.id(f))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, got.Name)
			}
			pc.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetConcurrentMisses(t *testing.T) {
	f := newFixture(t)
	s := NewCatalogService(f.store, cache.NopProductCache{}, f.log)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Get(context.Background(), f.teapot.ID)
			assert.NoError(t, err)
			assert.Equal(t, "Teapot", p.Name)
		}()
	}
	wg.Wait()
}

func TestCatalogService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := NewCatalogService(f.store, cache.NopProductCache{}, f.log)

	page, err := s.List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	negative := dec("-1")
	_, err = s.List(ctx, domain.ProductFilter{MaxPrice: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, f.kettle.ID, latest[0].ID)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.DefaultCategory}, cats)
}

func TestCatalogService_CreateProductValidation(t *testing.T) {
	f := newFixture(t)
	s := NewCatalogService(f.store, cache.NopProductCache{}, f.log)

	tests := []struct {
		name    string
		in      ProductInput
		wantErr error
	}{
		{name: "ok", in: ProductInput{Name: "Cup", UnitPrice: dec("5"), UnitCost: dec("2"), Stock: 3}},
		{name: "blank name", in: ProductInput{Name: "  ", UnitPrice: dec("5")}, wantErr: domain.ErrInvalidInput},
		{name: "long name", in: ProductInput{Name: "a very long product name that goes on", UnitPrice: dec("5")}, wantErr: domain.ErrInvalidInput},
		{name: "negative price", in: ProductInput{Name: "Cup", UnitPrice: dec("-5")}, wantErr: domain.ErrInvalidInput},
		{name: "negative cost", in: ProductInput{Name: "Cup", UnitCost: dec("-1")}, wantErr: domain.ErrInvalidInput},
		{name: "negative stock", in: ProductInput{Name: "Cup", Stock: -1}, wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.CreateProduct(context.Background(), f.sellerPrincipal(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.seller.ID, p.SellerID)
			assert.Equal(t, domain.DefaultCategory, p.Category)
		})
	}

	_, err := s.CreateProduct(context.Background(), f.customerPrincipal(), ProductInput{Name: "Cup"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCatalogService_UpdateAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rival := domain.Seller{Name: "Rival", Username: "rival", Email: "rival@example.com", IsApproved: true}
	require.NoError(t, f.store.Accounts().CreateSeller(ctx, &rival))
	rivalPrincipal := auth.SellerPrincipal(rival.ID)

	pc := new(mocks.MockProductCache)
	pc.On("Invalidate", mock.Anything, []uint64{f.teapot.ID}).Return(nil).Twice()
	s := NewCatalogService(f.store, pc, f.log)

	in := ProductInput{Name: "Teapot XL", UnitPrice: dec("120"), UnitCost: dec("70"), Stock: 4, Category: "Kitchen"}

	_, err := s.UpdateProduct(ctx, rivalPrincipal, f.teapot.ID, in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, s.DeleteProduct(ctx, rivalPrincipal, f.teapot.ID), domain.ErrUnauthorized)

	updated, err := s.UpdateProduct(ctx, f.sellerPrincipal(), f.teapot.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Teapot XL", updated.Name)
	assert.Equal(t, int64(4), updated.Stock)

	f.fillCart(t, f.customerPrincipal(), f.teapot.ID, 1)
	require.NoError(t, s.DeleteProduct(ctx, f.sellerPrincipal(), f.teapot.ID))
	lines, _ := f.store.Carts().ListByCustomer(ctx, f.customer.ID)
	assert.Empty(t, lines)

	assert.ErrorIs(t, s.DeleteProduct(ctx, f.sellerPrincipal(), f.teapot.ID), domain.ErrNotFound)

	own, err := s.ListOwn(ctx, f.sellerPrincipal())
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.kettle.ID, own[0].ID)
	pc.AssertExpectations(t)
}

func TestCatalogService_WarmCache(t *testing.T) {
	f := newFixture(t)
	pc := new(mocks.MockProductCache)
	pc.On("Set", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == f.teapot.ID || p.ID == f.kettle.ID
	})).Return(nil).Twice()

	s := NewCatalogService(f.store, pc, f.log)
	require.NoError(t, s.WarmCache(context.Background()))
	pc.AssertExpectations(t)
}
