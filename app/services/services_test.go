package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/models/migrations"
	"github.com/Rakhulsr/go-smartmart/app/utils/format"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens := sessions.NewTokenManager([]byte("test-hash-key-0123456789abcdefgh"), nil)
	return New(db, tokens, format.NewMoney("R$ ")), db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func mustCategory(t *testing.T, svc *Services, name string) *models.Category {
	t.Helper()
	c, err := svc.Categories.Create(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

// mustProduct creates a product; an empty price leaves it unpriced.
func mustProduct(t *testing.T, svc *Services, name, price string, categoryID *string) *models.Product {
	t.Helper()
	input := ProductInput{Name: name, Brand: "Acme", CategoryID: categoryID}
	if price != "" {
		input.Price = decPtr(price)
	}
	p, err := svc.Products.Create(context.Background(), input)
	require.NoError(t, err)
	return p
}

func mustSale(t *testing.T, svc *Services, productID string, qty int, total string, at time.Time) *models.Sale {
	t.Helper()
	s, err := svc.Sales.Create(context.Background(), SaleInput{ProductID: productID, Quantity: qty, TotalPrice: decPtr(total), Date: &at})
	require.NoError(t, err)
	return s
}

func historyOf(t *testing.T, db *gorm.DB, productID string) []models.PriceHistory {
	t.Helper()
	var rows []models.PriceHistory
	require.NoError(t, db.Where("product_id = ?", productID).Order("date").Order("id").Find(&rows).Error)
	return rows
}

func reloadProduct(t *testing.T, db *gorm.DB, id string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}
