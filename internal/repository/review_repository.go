package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReviewRepository interface {
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Review, error)
	// 集計の再計算用。その商品の現在の評価を全件返す
	ListRatingsByProductID(ctx context.Context, productID int64) ([]int, error)

	// (user, product) の重複は ErrDuplicate
	Create(ctx context.Context, r model.Review) (model.Review, error)
	// rating / comment のみ更新
	Update(ctx context.Context, r model.Review) error
	Delete(ctx context.Context, reviewID int64) error
}
