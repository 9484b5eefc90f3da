package memory

import (
	"context"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductRepository struct {
	s session
}

func (r *ProductRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var out []model.Product
	err := r.s.do(func(st *state) error {
		all := sortedByID(st.products, func(p model.Product) bool {
			return q.Category == "" || p.Category == q.Category
		})
		out = page(all, q.Skip, q.Limit)
		return nil
	})
	return out, err
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.s.do(func(st *state) error {
		seen := map[string]bool{}
		for _, p := range st.products {
			if p.Category == "" || seen[p.Category] {
				continue
			}
			seen[p.Category] = true
			out = append(out, p.Category)
		}
		sort.Strings(out)
		return nil
	})
	return out, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := r.s.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return repo.ErrNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	err := r.s.do(func(st *state) error {
		now := r.s.now()
		p.ID = st.nextID("products")
		if p.Category == "" {
			p.Category = model.DefaultCategory
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		st.products[p.ID] = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p model.Product) error {
	return r.s.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return repo.ErrNotFound
		}
		cur.Title = p.Title
		cur.Price = p.Price
		cur.Description = p.Description
		cur.Category = p.Category
		cur.Image = p.Image
		cur.UpdatedAt = r.s.now()
		st.products[p.ID] = cur
		return nil
	})
}

func (r *ProductRepository) UpdateRating(ctx context.Context, id int64, rate float64, count int64) error {
	return r.s.do(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return repo.ErrNotFound
		}
		cur.RatingRate = rate
		cur.RatingCount = count
		cur.UpdatedAt = r.s.now()
		st.products[id] = cur
		return nil
	})
}

// order_items は残す
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return repo.ErrNotFound
		}
		for k, w := range st.wishlist {
			if w.ProductID == id {
				delete(st.wishlist, k)
			}
		}
		for k, rv := range st.reviews {
			if rv.ProductID == id {
				delete(st.reviews, k)
			}
		}
		for k, c := range st.cartItems {
			if c.ProductID == id {
				delete(st.cartItems, k)
			}
		}
		delete(st.products, id)
		return nil
	})
}
