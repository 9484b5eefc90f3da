package repository

import (
	"context"

	"app/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	Exists(ctx context.Context, userID int64, productID int64) (bool, error)
	// 重複は ErrDuplicate
	Create(ctx context.Context, item model.WishlistItem) (model.WishlistItem, error)
	Delete(ctx context.Context, userID int64, productID int64) (bool, error)
}
