package memory

import (
	"context"
	"sort"
	"strings"

	"storefront/internal/domain"
)

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *domain.Product) error {
	defer r.s.lock()()
	t := r.s.db.t
	p.ID = t.next("products")
	p.CreatedAt = r.s.stamp(p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	t.products[p.ID] = *p
	return nil
}

func (r *productRepo) Update(_ context.Context, p *domain.Product) error {
	defer r.s.lock()()
	p.UpdatedAt = r.s.db.now()
	r.s.db.t.products[p.ID] = *p
	return nil
}

func (r *productRepo) Delete(_ context.Context, id uint64) error {
	defer r.s.lock()()
	r.s.deleteProduct(id)
	return nil
}

// deleteProduct mirrors the cart line foreign key cascade. Callers hold the lock.
func (s *Store) deleteProduct(id uint64) {
	t := s.db.t
	delete(t.products, id)
	for lineID, l := range t.cart {
		if l.ProductID == id {
			delete(t.cart, lineID)
		}
	}
}

func (r *productRepo) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.db.t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) approved() []domain.Product {
	t := r.s.db.t
	out := make([]domain.Product, 0, len(t.products))
	for _, p := range t.products {
		if seller, ok := t.sellers[p.SellerID]; ok && seller.IsApproved {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *productRepo) ListApproved(_ context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	defer r.s.lock()()
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)

	var matched []domain.Product
	for _, p := range r.approved() {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if filter.MaxPrice != nil && p.UnitPrice.GreaterThan(*filter.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}

	size := filter.PageSize
	if size <= 0 {
		size = domain.CatalogPageSize
	}
	total := int64(len(matched))
	page, pages := domain.PageBounds(filter.Page, size, total)
	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	return domain.ProductPage{
		Products:   append([]domain.Product{}, matched[start:end]...),
		Page:       page,
		TotalPages: pages,
		Total:      total,
	}, nil
}

func (r *productRepo) LatestApproved(_ context.Context, limit int) ([]domain.Product, error) {
	defer r.s.lock()()
	all := r.approved()
	out := make([]domain.Product, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (r *productRepo) ApprovedCategories(_ context.Context) ([]string, error) {
	defer r.s.lock()()
	seen := map[string]bool{}
	var out []string
	for _, p := range r.approved() {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *productRepo) ListBySeller(_ context.Context, sellerID uint64) ([]domain.Product, error) {
	defer r.s.lock()()
	var out []domain.Product
	for _, p := range r.s.db.t.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *productRepo) DecrementStock(_ context.Context, id uint64, qty int64) (bool, error) {
	defer r.s.lock()()
	p, ok := r.s.db.t.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.db.t.products[id] = p
	return true, nil
}
