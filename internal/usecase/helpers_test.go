package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/memory"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 999

type fixture struct {
	store    *memory.Store
	products *usecase.ProductUsecase
	cart     *usecase.CartUsecase
	orders   *usecase.OrderUsecase
	admin    *usecase.AdminOrderUsecase
	reviews  *usecase.ReviewUsecase
	wishlist *usecase.WishlistUsecase
	users    *usecase.UserUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	return &fixture{
		store:    s,
		products: usecase.NewProductUsecase(s.Products(), s),
		cart:     usecase.NewCartUsecase(s.CartItems(), s.Products()),
		orders:   usecase.NewOrderUsecase(s),
		admin:    usecase.NewAdminOrderUsecase(s, s.AuditLogs()),
		reviews:  usecase.NewReviewUsecase(s, s.Products(), s.Reviews()),
		wishlist: usecase.NewWishlistUsecase(s.Wishlist(), s.Products()),
		users:    usecase.NewUserUsecase(s.Users()),
	}
}

func (f *fixture) product(t *testing.T, title string, price string) model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), adminID, usecase.CreateProductInput{
		Title: title,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s got %s", want, got.String())
}

// 種類とステータスを同時に確認する
func assertKind(t *testing.T, err error, kind error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want %v got %v", kind, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, status, he.Status)
}
