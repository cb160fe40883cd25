package memory

import (
	"context"
	"slices"
	"sort"

	"storefront/internal/domain"
)

type cartRepo struct{ s *Store }

// withProduct returns a copy of l carrying its product, as gorm's Preload would.
func (r *cartRepo) withProduct(l domain.CartLine) domain.CartLine {
	if p, ok := r.s.db.t.products[l.ProductID]; ok {
		l.Product = &p
	}
	return l
}

func (r *cartRepo) FindLine(_ context.Context, customerID, productID uint64) (*domain.CartLine, error) {
	defer r.s.lock()()
	for _, l := range r.s.db.t.cart {
		if l.CustomerID == customerID && l.ProductID == productID {
			line := r.withProduct(l)
			return &line, nil
		}
	}
	return nil, nil
}

func (r *cartRepo) FindLineByID(_ context.Context, customerID, lineID uint64) (*domain.CartLine, error) {
	defer r.s.lock()()
	l, ok := r.s.db.t.cart[lineID]
	if !ok || l.CustomerID != customerID {
		return nil, nil
	}
	line := r.withProduct(l)
	return &line, nil
}

func (r *cartRepo) CreateLine(_ context.Context, line *domain.CartLine) error {
	defer r.s.lock()()
	t := r.s.db.t
	for _, l := range t.cart {
		if l.CustomerID == line.CustomerID && l.ProductID == line.ProductID {
			return domain.ErrConflict
		}
	}
	line.ID = t.next("cart")
	line.AddedAt = r.s.stamp(line.AddedAt)
	stored := *line
	stored.Product = nil
	t.cart[line.ID] = stored
	return nil
}

func (r *cartRepo) UpdateQuantity(_ context.Context, lineID uint64, qty int64) error {
	defer r.s.lock()()
	if l, ok := r.s.db.t.cart[lineID]; ok {
		l.Quantity = qty
		r.s.db.t.cart[lineID] = l
	}
	return nil
}

func (r *cartRepo) DeleteLine(_ context.Context, lineID uint64) error {
	defer r.s.lock()()
	delete(r.s.db.t.cart, lineID)
	return nil
}

func (r *cartRepo) ListByCustomer(_ context.Context, customerID uint64) ([]domain.CartLine, error) {
	defer r.s.lock()()
	var out []domain.CartLine
	for _, l := range r.s.db.t.cart {
		if l.CustomerID == customerID {
			out = append(out, r.withProduct(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cartRepo) DeleteLines(_ context.Context, customerID uint64, lineIDs []uint64) error {
	defer r.s.lock()()
	for id, l := range r.s.db.t.cart {
		if l.CustomerID == customerID && slices.Contains(lineIDs, id) {
			delete(r.s.db.t.cart, id)
		}
	}
	return nil
}
