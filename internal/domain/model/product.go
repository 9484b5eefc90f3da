package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when a product is created without a category.
const DefaultCategory = "general"

// 商品。rating系は Review の集計結果だけが書き込む。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Description *string         `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;default:'general';index" json:"category"`
	Image       *string         `gorm:"type:varchar(500)" json:"image"`
	RatingRate  float64         `gorm:"not null;default:0" json:"rating_rate"`
	RatingCount int64           `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
