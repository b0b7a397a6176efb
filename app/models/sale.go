package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID  string          `gorm:"size:36;not null;index" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
}

type SaleWithProfit struct {
	Sale
	Profit decimal.Decimal `json:"profit"`
}
