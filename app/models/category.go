package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID                 string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name               string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description        string          `gorm:"type:text" json:"description"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
