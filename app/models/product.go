package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product.Price is nullable: a product may be catalogued before it is priced.
type Product struct {
	ID           string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name         string              `gorm:"size:255;not null;index" json:"name"`
	Description  string              `gorm:"type:text" json:"description"`
	Price        decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"price"`
	Brand        string              `gorm:"size:100" json:"brand"`
	CategoryID   *string             `gorm:"size:36;index" json:"category_id"`
	Category     *Category           `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Sales        []Sale              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"-"`
	PriceHistory []PriceHistory      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// UpdatedProduct is the per-product line of a discount response.
type UpdatedProduct struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID *string         `json:"category_id"`
}
