package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)
	// 同一商品は数量を加算する（1文でupsert）
	AddQuantity(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	// 既存行の数量を上書き。行が無ければ ErrNotFound
	SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error)
	Delete(ctx context.Context, userID int64, productID int64) (bool, error)
	ClearByUserID(ctx context.Context, userID int64) error
}
