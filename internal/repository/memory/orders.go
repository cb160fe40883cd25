package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"storefront/internal/domain"
)

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, order *domain.Order) error {
	defer r.s.lock()()
	t := r.s.db.t
	order.ID = t.next("orders")
	order.CreatedAt = r.s.stamp(order.CreatedAt)
	if order.Status == "" {
		order.Status = domain.StatusPlaced
	}
	stored := *order
	stored.Items = nil
	stored.Payment = nil
	t.orders[order.ID] = stored
	return nil
}

func (r *orderRepo) CreateItems(_ context.Context, items []domain.OrderItem) error {
	defer r.s.lock()()
	t := r.s.db.t
	for i := range items {
		if _, ok := t.orders[items[i].OrderID]; !ok {
			return errors.New("insert order items: unknown order")
		}
		items[i].ID = t.next("order_items")
		t.items[items[i].ID] = items[i]
	}
	return nil
}

func (r *orderRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	defer r.s.lock()()
	t := r.s.db.t
	for _, p := range t.payments {
		if p.OrderID == payment.OrderID {
			return domain.ErrConflict
		}
	}
	payment.ID = t.next("payments")
	payment.CreatedAt = r.s.stamp(payment.CreatedAt)
	t.payments[payment.ID] = *payment
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	defer r.s.lock()()
	t := r.s.db.t
	o, ok := t.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = r.itemsOf(id)
	for _, p := range t.payments {
		if p.OrderID == id {
			o.Payment = &p
		}
	}
	return &o, nil
}

func (r *orderRepo) itemsOf(orderID uint64) []domain.OrderItem {
	var out []domain.OrderItem
	for _, it := range r.s.db.t.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func newestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

func (r *orderRepo) ListByCustomer(_ context.Context, customerID uint64) ([]domain.Order, error) {
	defer r.s.lock()()
	var out []domain.Order
	for _, o := range r.s.db.t.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *orderRepo) sellerOrders(sellerID uint64) map[uint64]bool {
	t := r.s.db.t
	ids := map[uint64]bool{}
	for _, it := range t.items {
		if it.SellerID == sellerID {
			ids[it.OrderID] = true
		}
	}
	return ids
}

func (r *orderRepo) ListBySeller(_ context.Context, sellerID uint64) ([]domain.Order, error) {
	defer r.s.lock()()
	var out []domain.Order
	for id := range r.sellerOrders(sellerID) {
		out = append(out, r.s.db.t.orders[id])
	}
	newestFirst(out)
	return out, nil
}

func (r *orderRepo) SellerHasItem(_ context.Context, orderID, sellerID uint64) (bool, error) {
	defer r.s.lock()()
	return r.sellerOrders(sellerID)[orderID], nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uint64, from, to domain.OrderStatus) (bool, error) {
	defer r.s.lock()()
	o, ok := r.s.db.t.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	r.s.db.t.orders[id] = o
	return true, nil
}

func (r *orderRepo) ListSoldItems(_ context.Context, from, to time.Time) ([]domain.SoldItem, error) {
	defer r.s.lock()()
	t := r.s.db.t

	ids := make([]uint64, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []domain.SoldItem
	for _, id := range ids {
		it := t.items[id]
		o, ok := t.orders[it.OrderID]
		if !ok || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		out = append(out, domain.SoldItem{
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SellerID:    it.SellerID,
			SellerName:  it.SellerName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPriceSnapshot,
			UnitCost:    it.UnitCostSnapshot,
		})
	}
	return out, nil
}
