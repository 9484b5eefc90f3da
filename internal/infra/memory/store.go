// Package memory is an in-process implementation of the repository
// interfaces. It backs DB_DRIVER=memory and the usecase/handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type state struct {
	seq map[string]int64

	users      map[int64]model.User
	products   map[int64]model.Product
	cartItems  map[int64]model.CartItem
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	wishlist   map[int64]model.WishlistItem
	reviews    map[int64]model.Review
	auditLogs  []model.AuditLog
}

func newState() *state {
	return &state{
		seq:        map[string]int64{},
		users:      map[int64]model.User{},
		products:   map[int64]model.Product{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
		wishlist:   map[int64]model.WishlistItem{},
		reviews:    map[int64]model.Review{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// 値はすべて丸ごと置き換えるので浅いコピーで足りる
func (s *state) clone() *state {
	return &state{
		seq:        cloneMap(s.seq),
		users:      cloneMap(s.users),
		products:   cloneMap(s.products),
		cartItems:  cloneMap(s.cartItems),
		orders:     cloneMap(s.orders),
		orderItems: cloneMap(s.orderItems),
		wishlist:   cloneMap(s.wishlist),
		reviews:    cloneMap(s.reviews),
		auditLogs:  append([]model.AuditLog(nil), s.auditLogs...),
	}
}

func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store holds every table behind one mutex.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// テスト用に時計を差し替える
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// session は tx 中ならスナップショットを、そうでなければロックして本体を触る。
type session struct {
	store *Store
	tx    *state
}

func (s session) do(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.st)
}

func (s session) now() time.Time {
	return s.store.now()
}

func (s *Store) root() session { return session{store: s} }

func (s *Store) Users() *UserRepository           { return &UserRepository{s: s.root()} }
func (s *Store) Products() *ProductRepository     { return &ProductRepository{s: s.root()} }
func (s *Store) CartItems() *CartItemRepository   { return &CartItemRepository{s: s.root()} }
func (s *Store) Orders() *OrderRepository         { return &OrderRepository{s: s.root()} }
func (s *Store) OrderItems() *OrderItemRepository { return &OrderItemRepository{s: s.root()} }
func (s *Store) Wishlist() *WishlistRepository    { return &WishlistRepository{s: s.root()} }
func (s *Store) Reviews() *ReviewRepository       { return &ReviewRepository{s: s.root()} }
func (s *Store) AuditLogs() *AuditLogRepository   { return &AuditLogRepository{s: s.root()} }

type txRepos struct {
	s session
}

func (r txRepos) Products() repo.ProductRepository     { return &ProductRepository{s: r.s} }
func (r txRepos) CartItems() repo.CartItemRepository   { return &CartItemRepository{s: r.s} }
func (r txRepos) Orders() repo.OrderRepository         { return &OrderRepository{s: r.s} }
func (r txRepos) OrderItems() repo.OrderItemRepository { return &OrderItemRepository{s: r.s} }
func (r txRepos) Reviews() repo.ReviewRepository       { return &ReviewRepository{s: r.s} }
func (r txRepos) AuditLogs() repo.AuditLogRepository   { return &AuditLogRepository{s: r.s} }

// WithinTx runs fn against a private copy of the store and publishes it
// only when fn returns nil. The store lock is held for the whole call, so
// fn must only use the repositories it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(txRepos{s: session{store: s, tx: snapshot}}); err != nil {
		return err
	}
	s.st = snapshot
	return nil
}

func sortedByID[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
