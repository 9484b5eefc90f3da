package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。ProductID は外部キーを張らない（商品削除後も履歴として残す）。
type OrderItem struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	ProductID            int64           `gorm:"not null;index" json:"product_id"`
	ProductTitleSnapshot string          `gorm:"type:varchar(200);not null" json:"product_title"`
	UnitPrice            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity             int64           `gorm:"not null" json:"quantity"`
	CreatedAt            time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

// LineTotal is UnitPrice * Quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}
