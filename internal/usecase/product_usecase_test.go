package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUsecase_CreateProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.products.CreateProduct(ctx, adminID, usecase.CreateProductInput{
		Title: " Coffee ",
		Price: dec("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", p.Title)
	assert.Equal(t, model.DefaultCategory, p.Category)
	assert.Equal(t, 0.0, p.RatingRate)
	assert.Equal(t, int64(0), p.RatingCount)
}

func TestProductUsecase_CreateProduct_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name string
		in   usecase.CreateProductInput
	}{
		{"blank title", usecase.CreateProductInput{Title: "  ", Price: dec("1")}},
		{"negative price", usecase.CreateProductInput{Title: "x", Price: dec("-0.01")}},
		{"three decimals", usecase.CreateProductInput{Title: "x", Price: dec("1.005")}},
		{"too large", usecase.CreateProductInput{Title: "x", Price: dec("100000000")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.CreateProduct(ctx, adminID, tc.in)
			assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)
		})
	}
}

func TestProductUsecase_ListProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shoes := "shoes"
	for i := 0; i < 3; i++ {
		_, err := f.products.CreateProduct(ctx, adminID, usecase.CreateProductInput{Title: "s", Price: decimal.Zero, Category: &shoes})
		require.NoError(t, err)
	}
	f.product(t, "g", "1.00")

	all, err := f.products.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	filtered, err := f.products.ListProducts(ctx, usecase.ListProductsInput{Category: "shoes", Skip: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	_, err = f.products.ListProducts(ctx, usecase.ListProductsInput{Limit: 101})
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)
	_, err = f.products.ListProducts(ctx, usecase.ListProductsInput{Skip: -1})
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)

	cats, err := f.products.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "shoes"}, cats)
}

func TestProductUsecase_UpdateProduct_PartialAndAudited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Old", "5.00")

	title := "New"
	updated, err := f.products.UpdateProduct(ctx, adminID, p.ID, usecase.UpdateProductInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assertDecimal(t, "5.00", updated.Price)

	logs, err := f.admin.ListAuditLogs(ctx, usecase.AuditLogListInput{Action: "UPDATE_PRODUCT"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].BeforeJSON, `"title":"Old"`)
	assert.Contains(t, logs[0].AfterJSON, `"title":"New"`)

	_, err = f.products.UpdateProduct(ctx, adminID, 404, usecase.UpdateProductInput{Title: &title})
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	blank := ""
	_, err = f.products.UpdateProduct(ctx, adminID, p.ID, usecase.UpdateProductInput{Title: &blank})
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)
}

func TestProductUsecase_DeleteProduct_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "5.00")

	_, err := f.cart.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, 1, p.ID)
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	order, err := f.orders.CreateFromLines(ctx, 1, []usecase.OrderLineInput{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, f.products.DeleteProduct(ctx, adminID, p.ID))

	_, err = f.products.GetProduct(ctx, p.ID)
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	items, err := f.cart.ListItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	wl, err := f.wishlist.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, wl.Count)

	mine, err := f.reviews.ListMine(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	got, err := f.orders.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	logs, err := f.admin.ListAuditLogs(ctx, usecase.AuditLogListInput{Action: "DELETE_PRODUCT"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Empty(t, logs[0].AfterJSON)

	err = f.products.DeleteProduct(ctx, adminID, p.ID)
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)
}
