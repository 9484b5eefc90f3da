package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧検索
type ProductListQuery struct {
	Skip     int
	Limit    int
	Category string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// title/price/description/category/image のみ更新する
	Update(ctx context.Context, p model.Product) error
	// レビュー集計値だけを書き込む
	UpdateRating(ctx context.Context, id int64, rate float64, count int64) error
	// wishlist / review / cart_items は連鎖削除、order_items は残す
	Delete(ctx context.Context, id int64) error
}
