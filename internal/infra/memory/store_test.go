package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ repo.UserRepository      = (*UserRepository)(nil)
	_ repo.ProductRepository   = (*ProductRepository)(nil)
	_ repo.CartItemRepository  = (*CartItemRepository)(nil)
	_ repo.OrderRepository     = (*OrderRepository)(nil)
	_ repo.OrderItemRepository = (*OrderItemRepository)(nil)
	_ repo.WishlistRepository  = (*WishlistRepository)(nil)
	_ repo.ReviewRepository    = (*ReviewRepository)(nil)
	_ repo.AuditLogRepository  = (*AuditLogRepository)(nil)
	_ repo.TransactionManager  = (*Store)(nil)
)

func mustProduct(t *testing.T, s *Store, title string, price string) model.Product {
	t.Helper()
	p, err := s.Products().Create(context.Background(), model.Product{
		Title: title,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func TestCartItems_AddQuantity_Merges(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := mustProduct(t, s, "A", "10.00")

	first, err := s.CartItems().AddQuantity(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	second, err := s.CartItems().AddQuantity(ctx, 1, p.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(5), second.Quantity)

	items, err := s.CartItems().ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartItems_AddQuantity_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := mustProduct(t, s, "A", "1.00")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CartItems().AddQuantity(ctx, 1, p.ID, 1)
		}()
	}
	wg.Wait()

	it, err := s.CartItems().FindByUserAndProduct(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), it.Quantity)
}

func TestCartItems_SetQuantity_Absent(t *testing.T) {
	s := NewStore()

	_, err := s.CartItems().SetQuantity(context.Background(), 1, 99, 2)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := mustProduct(t, s, "A", "10.00")
	_, err := s.CartItems().AddQuantity(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().Create(ctx, model.Order{UserID: 1, Status: model.OrderStatusPending}); err != nil {
			return err
		}
		if err := r.CartItems().ClearByUserID(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := s.Orders().ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)

	items, err := s.CartItems().ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWithinTx_Commit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.Order{UserID: 1, Status: model.OrderStatusPending})
		if err != nil {
			return err
		}
		_, err = r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{{ProductID: 1, Quantity: 1}})
		return err
	})
	require.NoError(t, err)

	orders, err := s.Orders().ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	items, err := s.OrderItems().ListByOrderID(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProducts_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := mustProduct(t, s, "A", "10.00")

	_, err := s.CartItems().AddQuantity(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	_, err = s.Wishlist().Create(ctx, model.WishlistItem{UserID: 1, ProductID: p.ID})
	require.NoError(t, err)
	_, err = s.Reviews().Create(ctx, model.Review{UserID: 1, ProductID: p.ID, Rating: 4})
	require.NoError(t, err)
	_, err = s.OrderItems().CreateBulk(ctx, 7, []model.OrderItem{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, s.Products().Delete(ctx, p.ID))

	items, _ := s.CartItems().ListByUserID(ctx, 1)
	assert.Empty(t, items)
	wl, _ := s.Wishlist().ListByUserID(ctx, 1)
	assert.Empty(t, wl)
	ratings, _ := s.Reviews().ListRatingsByProductID(ctx, p.ID)
	assert.Empty(t, ratings)
	ois, _ := s.OrderItems().ListByOrderID(ctx, 7)
	assert.Len(t, ois, 1)

	assert.ErrorIs(t, s.Products().Delete(ctx, p.ID), repo.ErrNotFound)
}

func TestProducts_ListAndCategories(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, c := range []string{"shoes", "", "hats", "shoes"} {
		_, err := s.Products().Create(ctx, model.Product{Title: "x", Price: decimal.Zero, Category: c})
		require.NoError(t, err)
	}

	cats, err := s.Products().ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "hats", "shoes"}, cats)

	shoes, err := s.Products().List(ctx, repo.ProductListQuery{Limit: 10, Category: "shoes"})
	require.NoError(t, err)
	assert.Len(t, shoes, 2)

	paged, err := s.Products().List(ctx, repo.ProductListQuery{Skip: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, int64(4), paged[0].ID)
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Users().Create(ctx, &model.User{Email: "a@b.c"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &model.User{Email: "a@b.c"}), repo.ErrDuplicate)

	_, err := s.Wishlist().Create(ctx, model.WishlistItem{UserID: 1, ProductID: 1})
	require.NoError(t, err)
	_, err = s.Wishlist().Create(ctx, model.WishlistItem{UserID: 1, ProductID: 1})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	_, err = s.Reviews().Create(ctx, model.Review{UserID: 1, ProductID: 1, Rating: 5})
	require.NoError(t, err)
	_, err = s.Reviews().Create(ctx, model.Review{UserID: 1, ProductID: 1, Rating: 3})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}
