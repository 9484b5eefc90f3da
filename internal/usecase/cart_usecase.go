package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 合計は常に今の商品価格で計算する（追加時の価格は持たない）。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// カート明細＋商品情報
type CartLineOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     *string         `json:"image"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartOutput struct {
	Items []CartLineOutput `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// 同一商品は数量加算。加算後の明細を返す
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, productID int64, quantity int64) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, Unauthorized("unauthorized")
	}
	if quantity < 1 {
		return model.CartItem{}, Validation("quantity must be >= 1")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.CartItem{}, NotFound("product not found")
		}
		return model.CartItem{}, dbError()
	}

	item, err := u.cartItemRepo.AddQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return model.CartItem{}, dbError()
	}
	return item, nil
}

// quantity <= 0 は削除（無くてもエラーにしない）。
// 削除した場合は nil を返す。
func (u *CartUsecase) SetQuantity(ctx context.Context, userID int64, productID int64, quantity int64) (*model.CartItem, error) {
	if userID <= 0 {
		return nil, Unauthorized("unauthorized")
	}

	if quantity <= 0 {
		if _, err := u.cartItemRepo.Delete(ctx, userID, productID); err != nil {
			return nil, dbError()
		}
		return nil, nil
	}

	item, err := u.cartItemRepo.SetQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NotFound("cart item not found")
	}
	if err != nil {
		return nil, dbError()
	}
	return &item, nil
}

// 削除できたかどうかを返す
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (bool, error) {
	if userID <= 0 {
		return false, Unauthorized("unauthorized")
	}

	deleted, err := u.cartItemRepo.Delete(ctx, userID, productID)
	if err != nil {
		return false, dbError()
	}
	return deleted, nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return Unauthorized("unauthorized")
	}
	if err := u.cartItemRepo.ClearByUserID(ctx, userID); err != nil {
		return dbError()
	}
	return nil
}

// 商品が消えた明細は飛ばす
func (u *CartUsecase) ListItems(ctx context.Context, userID int64) ([]CartLineOutput, error) {
	if userID <= 0 {
		return []CartLineOutput{}, Unauthorized("unauthorized")
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []CartLineOutput{}, dbError()
	}

	out := make([]CartLineOutput, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return []CartLineOutput{}, dbError()
		}

		out = append(out, CartLineOutput{
			ID:        it.ID,
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Image:     p.Image,
			Quantity:  it.Quantity,
			Subtotal:  p.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return out, nil
}

func (u *CartUsecase) Total(ctx context.Context, userID int64) (decimal.Decimal, error) {
	lines, err := u.ListItems(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumLines(lines), nil
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	lines, err := u.ListItems(ctx, userID)
	if err != nil {
		return CartOutput{}, err
	}
	return CartOutput{Items: lines, Total: sumLines(lines)}, nil
}

func sumLines(lines []CartLineOutput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}
