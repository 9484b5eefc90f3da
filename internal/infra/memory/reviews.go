package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ReviewRepository struct {
	s session
}

func (r *ReviewRepository) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	var out model.Review
	err := r.s.do(func(st *state) error {
		rv, ok := st.reviews[reviewID]
		if !ok {
			return repo.ErrNotFound
		}
		out = rv
		return nil
	})
	return out, err
}

func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error) {
	var out model.Review
	err := r.s.do(func(st *state) error {
		for _, rv := range st.reviews {
			if rv.UserID == userID && rv.ProductID == productID {
				out = rv
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *ReviewRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var out []model.Review
	err := r.s.do(func(st *state) error {
		out = sortedByID(st.reviews, func(rv model.Review) bool { return rv.ProductID == productID })
		return nil
	})
	return out, err
}

func (r *ReviewRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Review, error) {
	var out []model.Review
	err := r.s.do(func(st *state) error {
		out = sortedByID(st.reviews, func(rv model.Review) bool { return rv.UserID == userID })
		return nil
	})
	return out, err
}

func (r *ReviewRepository) ListRatingsByProductID(ctx context.Context, productID int64) ([]int, error) {
	out := []int{}
	err := r.s.do(func(st *state) error {
		for _, rv := range sortedByID(st.reviews, func(rv model.Review) bool { return rv.ProductID == productID }) {
			out = append(out, rv.Rating)
		}
		return nil
	})
	return out, err
}

func (r *ReviewRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	err := r.s.do(func(st *state) error {
		for _, cur := range st.reviews {
			if cur.UserID == rv.UserID && cur.ProductID == rv.ProductID {
				return repo.ErrDuplicate
			}
		}
		now := r.s.now()
		rv.ID = st.nextID("reviews")
		rv.CreatedAt = now
		rv.UpdatedAt = now
		st.reviews[rv.ID] = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv model.Review) error {
	return r.s.do(func(st *state) error {
		cur, ok := st.reviews[rv.ID]
		if !ok {
			return repo.ErrNotFound
		}
		cur.Rating = rv.Rating
		cur.Comment = rv.Comment
		cur.UpdatedAt = r.s.now()
		st.reviews[rv.ID] = cur
		return nil
	})
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID int64) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.reviews[reviewID]; !ok {
			return repo.ErrNotFound
		}
		delete(st.reviews, reviewID)
		return nil
	})
}
