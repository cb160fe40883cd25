package services

import (
	"context"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, f *fixture, p auth.Principal, productID uint64) *domain.Order {
	t.Helper()
	f.fillCart(t, p, productID, 1)
	order, err := f.checkoutService().Checkout(context.Background(), p, domain.CheckoutRequest{Shipping: testShipping})
	require.NoError(t, err)
	return order
}

func TestFeedbackService_Add(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := placeOrder(t, f, f.customerPrincipal(), f.teapot.ID)
	s := NewFeedbackService(f.store, f.log)

	fb, err := s.Add(ctx, f.customerPrincipal(), order.ID, f.teapot.ID, "  lovely pot  ")
	require.NoError(t, err)
	assert.Equal(t, f.seller.ID, fb.SellerID)
	assert.Equal(t, f.customer.ID, fb.CustomerID)
	assert.Equal(t, "lovely pot", fb.Body)

	list, err := s.ListForSeller(ctx, f.sellerPrincipal())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fb.ID, list[0].ID)
}

func TestFeedbackService_AddErrors(t *testing.T) {
	f := newFixture(t)
	order := placeOrder(t, f, f.customerPrincipal(), f.teapot.ID)
	s := NewFeedbackService(f.store, f.log)

	tests := []struct {
		name      string
		principal auth.Principal
		orderID   uint64
		productID uint64
		text      string
		wantErr   error
	}{
		{name: "blank text", principal: f.customerPrincipal(), orderID: order.ID, productID: f.teapot.ID, text: " \n\t", wantErr: domain.ErrInvalidInput},
		{name: "someone else's order", principal: auth.CustomerPrincipal(f.other.ID), orderID: order.ID, productID: f.teapot.ID, text: "hi", wantErr: domain.ErrNotFound},
		{name: "product not in order", principal: f.customerPrincipal(), orderID: order.ID, productID: f.kettle.ID, text: "hi", wantErr: domain.ErrNotFound},
		{name: "unknown order", principal: f.customerPrincipal(), orderID: 999, productID: f.teapot.ID, text: "hi", wantErr: domain.ErrNotFound},
		{name: "seller", principal: f.sellerPrincipal(), orderID: order.ID, productID: f.teapot.ID, text: "hi", wantErr: domain.ErrUnauthorized},
		{name: "guest", principal: auth.Guest, orderID: order.ID, productID: f.teapot.ID, text: "hi", wantErr: domain.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := s.Add(context.Background(), tt.principal, tt.orderID, tt.productID, tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, fb)
		})
	}
}

func TestFeedbackService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := placeOrder(t, f, f.customerPrincipal(), f.teapot.ID)
	s := NewFeedbackService(f.store, f.log)

	fb, err := s.Add(ctx, f.customerPrincipal(), order.ID, f.teapot.ID, "great")
	require.NoError(t, err)

	rival := domain.Seller{Name: "Rival", Username: "rival", Email: "rival@example.com", IsApproved: true}
	require.NoError(t, f.store.Accounts().CreateSeller(ctx, &rival))

	assert.ErrorIs(t, s.Delete(ctx, auth.SellerPrincipal(rival.ID), fb.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, s.Delete(ctx, f.customerPrincipal(), fb.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, s.Delete(ctx, f.sellerPrincipal(), 999), domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, f.sellerPrincipal(), fb.ID))
	assert.ErrorIs(t, s.Delete(ctx, f.sellerPrincipal(), fb.ID), domain.ErrNotFound)
}
