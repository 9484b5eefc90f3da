package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CartItemRepository struct {
	s session
}

func findCartItem(st *state, userID, productID int64) (model.CartItem, bool) {
	for _, c := range st.cartItems {
		if c.UserID == userID && c.ProductID == productID {
			return c, true
		}
	}
	return model.CartItem{}, false
}

func (r *CartItemRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	err := r.s.do(func(st *state) error {
		out = sortedByID(st.cartItems, func(c model.CartItem) bool { return c.UserID == userID })
		return nil
	})
	return out, err
}

func (r *CartItemRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var out model.CartItem
	err := r.s.do(func(st *state) error {
		c, ok := findCartItem(st, userID, productID)
		if !ok {
			return repo.ErrNotFound
		}
		out = c
		return nil
	})
	return out, err
}

func (r *CartItemRepository) AddQuantity(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error) {
	if addQty <= 0 {
		return model.CartItem{}, repo.ErrInvalidQuantity
	}
	var out model.CartItem
	err := r.s.do(func(st *state) error {
		now := r.s.now()
		c, ok := findCartItem(st, userID, productID)
		if ok {
			c.Quantity += addQty
			c.UpdatedAt = now
		} else {
			c = model.CartItem{
				ID:        st.nextID("cart_items"),
				UserID:    userID,
				ProductID: productID,
				Quantity:  addQty,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		st.cartItems[c.ID] = c
		out = c
		return nil
	})
	return out, err
}

func (r *CartItemRepository) SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	if qty <= 0 {
		return model.CartItem{}, repo.ErrInvalidQuantity
	}
	var out model.CartItem
	err := r.s.do(func(st *state) error {
		c, ok := findCartItem(st, userID, productID)
		if !ok {
			return repo.ErrNotFound
		}
		c.Quantity = qty
		c.UpdatedAt = r.s.now()
		st.cartItems[c.ID] = c
		out = c
		return nil
	})
	return out, err
}

func (r *CartItemRepository) Delete(ctx context.Context, userID int64, productID int64) (bool, error) {
	deleted := false
	err := r.s.do(func(st *state) error {
		if c, ok := findCartItem(st, userID, productID); ok {
			delete(st.cartItems, c.ID)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (r *CartItemRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.s.do(func(st *state) error {
		for k, c := range st.cartItems {
			if c.UserID == userID {
				delete(st.cartItems, k)
			}
		}
		return nil
	})
}
