package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistUsecase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "1.00")

	_, err := f.wishlist.Add(ctx, 1, p.ID)
	require.NoError(t, err)

	_, err = f.wishlist.Add(ctx, 1, p.ID)
	assertKind(t, err, usecase.ErrConflict, http.StatusBadRequest)

	_, err = f.wishlist.Add(ctx, 1, 8080)
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	ok, err := f.wishlist.Check(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := f.wishlist.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "A", list.Items[0].Product.Title)

	require.NoError(t, f.wishlist.Remove(ctx, 1, p.ID))
	err = f.wishlist.Remove(ctx, 1, p.ID)
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	ok, err = f.wishlist.Check(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
