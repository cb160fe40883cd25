package memory

import (
	"context"
	"sort"

	"storefront/internal/domain"
)

type feedbackRepo struct{ s *Store }

func (r *feedbackRepo) Create(_ context.Context, f *domain.Feedback) error {
	defer r.s.lock()()
	f.ID = r.s.db.t.next("feedback")
	f.CreatedAt = r.s.stamp(f.CreatedAt)
	r.s.db.t.feedback[f.ID] = *f
	return nil
}

func (r *feedbackRepo) FindByID(_ context.Context, id uint64) (*domain.Feedback, error) {
	defer r.s.lock()()
	f, ok := r.s.db.t.feedback[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *feedbackRepo) Delete(_ context.Context, id uint64) error {
	defer r.s.lock()()
	delete(r.s.db.t.feedback, id)
	return nil
}

func (r *feedbackRepo) ListBySeller(_ context.Context, sellerID uint64) ([]domain.Feedback, error) {
	defer r.s.lock()()
	var out []domain.Feedback
	for _, f := range r.s.db.t.feedback {
		if f.SellerID == sellerID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
