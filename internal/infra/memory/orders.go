package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderRepository struct {
	s session
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var out model.Order
	err := r.s.do(func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		out = o
		return nil
	})
	return out, err
}

// 新しい順
func (r *OrderRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var out []model.Order
	err := r.s.do(func(st *state) error {
		out = reverse(sortedByID(st.orders, func(o model.Order) bool { return o.UserID == userID }))
		return nil
	})
	return out, err
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	err := r.s.do(func(st *state) error {
		now := r.s.now()
		order.ID = st.nextID("orders")
		order.CreatedAt = now
		order.UpdatedAt = now
		st.orders[order.ID] = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.s.do(func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = r.s.now()
		st.orders[orderID] = o
		return nil
	})
}

func (r *OrderRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	var (
		out   []model.Order
		total int64
	)
	err := r.s.do(func(st *state) error {
		all := reverse(sortedByID(st.orders, func(o model.Order) bool {
			if f.Status != "" && string(o.Status) != f.Status {
				return false
			}
			if f.UserID != nil && o.UserID != *f.UserID {
				return false
			}
			return true
		}))
		total = int64(len(all))
		out = page(all, (f.Page-1)*f.Limit, f.Limit)
		return nil
	})
	return out, total, err
}

type OrderItemRepository struct {
	s session
}

func (r *OrderItemRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	out := make([]model.OrderItem, 0, len(items))
	err := r.s.do(func(st *state) error {
		now := r.s.now()
		for _, it := range items {
			it.ID = st.nextID("order_items")
			it.OrderID = orderID
			it.CreatedAt = now
			st.orderItems[it.ID] = it
			out = append(out, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderItemRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var out []model.OrderItem
	err := r.s.do(func(st *state) error {
		out = sortedByID(st.orderItems, func(it model.OrderItem) bool { return it.OrderID == orderID })
		return nil
	})
	return out, err
}

func reverse[T any](items []T) []T {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}
