package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type WishlistRepository struct {
	s session
}

func (r *WishlistRepository) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	err := r.s.do(func(st *state) error {
		out = sortedByID(st.wishlist, func(w model.WishlistItem) bool { return w.UserID == userID })
		return nil
	})
	return out, err
}

func (r *WishlistRepository) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	found := false
	err := r.s.do(func(st *state) error {
		for _, w := range st.wishlist {
			if w.UserID == userID && w.ProductID == productID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *WishlistRepository) Create(ctx context.Context, item model.WishlistItem) (model.WishlistItem, error) {
	err := r.s.do(func(st *state) error {
		for _, w := range st.wishlist {
			if w.UserID == item.UserID && w.ProductID == item.ProductID {
				return repo.ErrDuplicate
			}
		}
		item.ID = st.nextID("wishlist_items")
		item.CreatedAt = r.s.now()
		st.wishlist[item.ID] = item
		return nil
	})
	if err != nil {
		return model.WishlistItem{}, err
	}
	return item, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, userID int64, productID int64) (bool, error) {
	deleted := false
	err := r.s.do(func(st *state) error {
		for k, w := range st.wishlist {
			if w.UserID == userID && w.ProductID == productID {
				delete(st.wishlist, k)
				deleted = true
				break
			}
		}
		return nil
	})
	return deleted, err
}
