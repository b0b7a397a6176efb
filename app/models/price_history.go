package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriceReasonManual   = "manual update"
	PriceReasonDiscount = "discount"
	PriceReasonImport   = "csv import"
)

// PriceHistory is append-only: one row per price-changing event, holding the
// price after the change.
type PriceHistory struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string          `gorm:"size:36;not null;index" json:"product_id"`
	Price     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Reason    *string         `gorm:"size:255" json:"reason"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
