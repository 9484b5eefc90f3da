package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/memory"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeStoreBody = `[
  {"id":1,"title":"Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"T-Shirt","price":22.3,"description":"","category":"","image":""},
  {"id":3,"title":"Backpack","price":1,"category":"dup"}
]`

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func TestFetchAndSeedProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fakeStoreBody))
	}))
	defer srv.Close()

	ctx := context.Background()
	items, err := FetchProducts(ctx, srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 3)

	store := memory.NewStore()
	added, err := Products(ctx, store.Products(), items)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	list, err := store.Products().List(ctx, repo.ProductListQuery{Limit: 100})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Backpack", list[0].Title)
	assert.Equal(t, "109.95", list[0].Price.StringFixed(2))
	assert.Equal(t, "men's clothing", list[0].Category)
	assert.Equal(t, 0.0, list[0].RatingRate)
	assert.Equal(t, int64(0), list[0].RatingCount)

	assert.Equal(t, model.DefaultCategory, list[1].Category)
	assert.Nil(t, list[1].Description)
	assert.Nil(t, list[1].Image)

	// 2回目は全部スキップ
	added, err = Products(ctx, store.Products(), items)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestFetchProducts_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := FetchProducts(context.Background(), srv.Client(), srv.URL)
	assert.ErrorContains(t, err, "status 502")
}

func TestClearProducts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := Products(ctx, store.Products(), []ProductData{{Title: "a"}, {Title: "b"}, {Title: "c"}})
	require.NoError(t, err)

	n, err := ClearProducts(ctx, store.Products())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := store.Products().List(ctx, repo.ProductListQuery{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	created, err := Admin(ctx, store.Users(), plainHasher{}, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := store.Users().FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "hashed:secret1", u.PasswordHash)

	created, err = Admin(ctx, store.Users(), plainHasher{}, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = Admin(ctx, store.Users(), plainHasher{}, "admin@example.com", "")
	assert.Error(t, err)
}
