package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
}

func NewWishlistUsecase(wishlistRepo repo.WishlistRepository, productRepo repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

type WishlistItemOutput struct {
	ID        int64         `json:"id"`
	ProductID int64         `json:"product_id"`
	CreatedAt time.Time     `json:"created_at"`
	Product   model.Product `json:"product"`
}

type WishlistOutput struct {
	Items []WishlistItemOutput `json:"items"`
	Count int                  `json:"count"`
}

func (u *WishlistUsecase) List(ctx context.Context, userID int64) (WishlistOutput, error) {
	if userID <= 0 {
		return WishlistOutput{}, Unauthorized("unauthorized")
	}

	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return WishlistOutput{}, dbError()
	}

	out := WishlistOutput{Items: make([]WishlistItemOutput, 0, len(items))}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return WishlistOutput{}, dbError()
		}
		out.Items = append(out.Items, WishlistItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			CreatedAt: it.CreatedAt,
			Product:   p,
		})
	}
	out.Count = len(out.Items)
	return out, nil
}

func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) (model.WishlistItem, error) {
	if userID <= 0 {
		return model.WishlistItem{}, Unauthorized("unauthorized")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.WishlistItem{}, NotFound("product not found")
		}
		return model.WishlistItem{}, dbError()
	}

	exists, err := u.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return model.WishlistItem{}, dbError()
	}
	if exists {
		return model.WishlistItem{}, Conflict("product already in wishlist")
	}

	item, err := u.wishlistRepo.Create(ctx, model.WishlistItem{UserID: userID, ProductID: productID})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.WishlistItem{}, Conflict("product already in wishlist")
	}
	if err != nil {
		return model.WishlistItem{}, dbError()
	}
	return item, nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return Unauthorized("unauthorized")
	}

	deleted, err := u.wishlistRepo.Delete(ctx, userID, productID)
	if err != nil {
		return dbError()
	}
	if !deleted {
		return NotFound("product not in wishlist")
	}
	return nil
}

func (u *WishlistUsecase) Check(ctx context.Context, userID int64, productID int64) (bool, error) {
	if userID <= 0 {
		return false, Unauthorized("unauthorized")
	}
	exists, err := u.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, dbError()
	}
	return exists, nil
}
