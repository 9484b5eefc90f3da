package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

// 注文する行（商品と数量）
type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type OrderItemOutput struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int64           `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Status    string            `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Items     []OrderItemOutput `json:"items"`
}

// 指定の行から注文を作る。途中で失敗したら何も残らない
func (u *OrderUsecase) CreateFromLines(ctx context.Context, userID int64, lines []OrderLineInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, Unauthorized("unauthorized")
	}
	if err := validateOrderLines(lines); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = placeOrder(ctx, r, userID, lines)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// カートから注文。注文作成とカートのクリアは同じtxで確定する
func (u *OrderUsecase) CreateFromCart(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, Unauthorized("unauthorized")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return dbError()
		}
		if len(cartItems) == 0 {
			return InvalidState("cart is empty")
		}

		lines := make([]OrderLineInput, 0, len(cartItems))
		for _, ci := range cartItems {
			lines = append(lines, OrderLineInput{ProductID: ci.ProductID, Quantity: ci.Quantity})
		}
		if err := validateOrderLines(lines); err != nil {
			return err
		}

		out, err = placeOrder(ctx, r, userID, lines)
		if err != nil {
			return err
		}

		//注文できたらカートを空にする
		if err := r.CartItems().ClearByUserID(ctx, userID); err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 他人の注文は 403
func (u *OrderUsecase) Get(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, Unauthorized("unauthorized")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return dbError()
		}
		if o.UserID != userID {
			return Forbidden("forbidden")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 新しい順
func (u *OrderUsecase) ListForUser(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, Unauthorized("unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return dbError()
		}

		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func validateOrderLines(lines []OrderLineInput) error {
	if len(lines) == 0 {
		return Validation("order must contain at least one item")
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return Validation(fmt.Sprintf("quantity for product %d must be >= 1", l.ProductID))
		}
	}
	return nil
}

// 価格と商品名はこの時点のものを明細に写す
func placeOrder(ctx context.Context, r repo.TxRepos, userID int64, lines []OrderLineInput) (OrderOutput, error) {
	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		p, err := r.Products().FindByID(ctx, l.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NotFound(fmt.Sprintf("product %d not found", l.ProductID))
		}
		if err != nil {
			return OrderOutput{}, dbError()
		}

		it := model.OrderItem{
			ProductID:            p.ID,
			ProductTitleSnapshot: p.Title,
			UnitPrice:            p.Price,
			Quantity:             l.Quantity,
		}
		items = append(items, it)
		total = total.Add(it.LineTotal())
	}

	order, err := r.Orders().Create(ctx, model.Order{
		UserID: userID,
		Status: model.OrderStatusPending,
		Total:  total,
	})
	if err != nil {
		return OrderOutput{}, dbError()
	}

	created, err := r.OrderItems().CreateBulk(ctx, order.ID, items)
	if err != nil {
		return OrderOutput{}, dbError()
	}

	return toOrderOutput(order, created), nil
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, dbError()
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     make([]OrderItemOutput, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitleSnapshot,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			LineTotal:    it.LineTotal(),
		})
	}
	return out
}
