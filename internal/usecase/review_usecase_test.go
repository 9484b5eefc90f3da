package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestReviewUsecase_AggregateFollowsWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00")

	r1, err := f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, 2, usecase.CreateReviewInput{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, 3, usecase.CreateReviewInput{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)

	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, got.RatingRate)
	assert.Equal(t, int64(3), got.RatingCount)

	_, err = f.reviews.Update(ctx, 1, r1.ID, usecase.UpdateReviewInput{Rating: ptr(1)})
	require.NoError(t, err)

	got, err = f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.RatingRate)

	list, err := f.reviews.ListForProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, list.AverageRating)
	assert.Equal(t, int64(3), list.TotalReviews)
	assert.Len(t, list.Reviews, 3)
}

func TestReviewUsecase_DeleteLastResetsToZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00")

	rv, err := f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 5, Comment: ptr("great")})
	require.NoError(t, err)

	require.NoError(t, f.reviews.Delete(ctx, 1, rv.ID))

	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.RatingRate)
	assert.Equal(t, int64(0), got.RatingCount)
}

func TestReviewUsecase_Create_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00")

	_, err := f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: 999, Rating: 5})
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	for _, rating := range []int{0, 6} {
		_, err = f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: rating})
		assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)
	}

	_, err = f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 3, Comment: ptr(strings.Repeat("x", 1001))})
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)

	_, err = f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 3, Comment: ptr(strings.Repeat("あ", 1000))})
	require.NoError(t, err)

	_, err = f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 4})
	assertKind(t, err, usecase.ErrConflict, http.StatusBadRequest)

	// 失敗した書き込みは集計を変えない
	got, err := f.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.RatingRate)
	assert.Equal(t, int64(1), got.RatingCount)
}

func TestReviewUsecase_OnlyAuthorCanModify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00")

	rv, err := f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 2})
	require.NoError(t, err)

	_, err = f.reviews.Update(ctx, 2, rv.ID, usecase.UpdateReviewInput{Rating: ptr(5)})
	assertKind(t, err, usecase.ErrForbidden, http.StatusForbidden)

	err = f.reviews.Delete(ctx, 2, rv.ID)
	assertKind(t, err, usecase.ErrForbidden, http.StatusForbidden)

	_, err = f.reviews.Update(ctx, 1, 555, usecase.UpdateReviewInput{Rating: ptr(5)})
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)
}

func TestReviewUsecase_UpdateKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00")

	rv, err := f.reviews.Create(ctx, 1, usecase.CreateReviewInput{ProductID: p.ID, Rating: 2, Comment: ptr("meh")})
	require.NoError(t, err)

	updated, err := f.reviews.Update(ctx, 1, rv.ID, usecase.UpdateReviewInput{Rating: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "meh", *updated.Comment)

	_, err = f.reviews.Update(ctx, 1, rv.ID, usecase.UpdateReviewInput{Rating: ptr(9)})
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)

	mine, err := f.reviews.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 4, mine[0].Rating)
}

func TestReviewUsecase_ListForProduct_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.reviews.ListForProduct(context.Background(), 31337)
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)
}
