package memory

import (
	"context"
	"sort"

	"storefront/internal/domain"
)

type accountRepo struct{ s *Store }

func (r *accountRepo) usernameTaken(username string) bool {
	t := r.s.db.t
	for _, c := range t.customers {
		if c.Username == username {
			return true
		}
	}
	for _, s := range t.sellers {
		if s.Username == username {
			return true
		}
	}
	return false
}

func (r *accountRepo) emailTaken(email string) bool {
	t := r.s.db.t
	for _, c := range t.customers {
		if c.Email == email {
			return true
		}
	}
	for _, s := range t.sellers {
		if s.Email == email {
			return true
		}
	}
	return false
}

func (r *accountRepo) clash(username, email string) bool {
	return r.usernameTaken(username) || r.emailTaken(email)
}

func (r *accountRepo) CreateCustomer(_ context.Context, c *domain.Customer) error {
	defer r.s.lock()()
	if r.clash(c.Username, c.Email) {
		return domain.ErrConflict
	}
	c.ID = r.s.db.t.next("customers")
	c.CreatedAt = r.s.stamp(c.CreatedAt)
	r.s.db.t.customers[c.ID] = *c
	return nil
}

func (r *accountRepo) CreateSeller(_ context.Context, s *domain.Seller) error {
	defer r.s.lock()()
	if r.clash(s.Username, s.Email) {
		return domain.ErrConflict
	}
	s.ID = r.s.db.t.next("sellers")
	s.CreatedAt = r.s.stamp(s.CreatedAt)
	r.s.db.t.sellers[s.ID] = *s
	return nil
}

func (r *accountRepo) FindCustomerByUsername(_ context.Context, username string) (*domain.Customer, error) {
	defer r.s.lock()()
	for _, c := range r.s.db.t.customers {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) FindSellerByUsername(_ context.Context, username string) (*domain.Seller, error) {
	defer r.s.lock()()
	for _, s := range r.s.db.t.sellers {
		if s.Username == username {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) FindCustomerByID(_ context.Context, id uint64) (*domain.Customer, error) {
	defer r.s.lock()()
	c, ok := r.s.db.t.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *accountRepo) UpdateCustomerProfile(_ context.Context, id uint64, profile domain.CustomerProfile) (bool, error) {
	defer r.s.lock()()
	c, ok := r.s.db.t.customers[id]
	if !ok {
		return false, nil
	}
	c.Name = profile.Name
	c.Address = profile.Address
	c.Phone = profile.Phone
	c.PhotoRef = profile.PhotoRef
	r.s.db.t.customers[id] = c
	return true, nil
}

func (r *accountRepo) FindSellerByID(_ context.Context, id uint64) (*domain.Seller, error) {
	defer r.s.lock()()
	s, ok := r.s.db.t.sellers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *accountRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	defer r.s.lock()()
	return r.usernameTaken(username), nil
}

func (r *accountRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	defer r.s.lock()()
	return r.emailTaken(email), nil
}

func (r *accountRepo) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	defer r.s.lock()()
	out := make([]domain.Customer, 0, len(r.s.db.t.customers))
	for _, c := range r.s.db.t.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *accountRepo) ListSellers(_ context.Context, approved bool) ([]domain.Seller, error) {
	defer r.s.lock()()
	var out []domain.Seller
	for _, s := range r.s.db.t.sellers {
		if s.IsApproved == approved {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *accountRepo) ApproveSeller(_ context.Context, id uint64) (bool, error) {
	defer r.s.lock()()
	s, ok := r.s.db.t.sellers[id]
	if !ok {
		return false, nil
	}
	s.IsApproved = true
	r.s.db.t.sellers[id] = s
	return true, nil
}

func (r *accountRepo) DeleteSeller(_ context.Context, id uint64) (bool, error) {
	defer r.s.lock()()
	t := r.s.db.t
	if _, ok := t.sellers[id]; !ok {
		return false, nil
	}
	delete(t.sellers, id)
	for pid, p := range t.products {
		if p.SellerID == id {
			r.s.deleteProduct(pid)
		}
	}
	for fid, f := range t.feedback {
		if f.SellerID == id {
			delete(t.feedback, fid)
		}
	}
	return true, nil
}

func (r *accountRepo) DeleteCustomer(_ context.Context, id uint64) (bool, error) {
	defer r.s.lock()()
	t := r.s.db.t
	if _, ok := t.customers[id]; !ok {
		return false, nil
	}
	delete(t.customers, id)
	for lineID, l := range t.cart {
		if l.CustomerID == id {
			delete(t.cart, lineID)
		}
	}
	return true, nil
}
