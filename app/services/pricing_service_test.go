package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyCategoryDiscount(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	drinks := mustCategory(t, svc, "Drinks")
	snacks := mustCategory(t, svc, "Snacks")
	cola := mustProduct(t, svc, "Cola", "100", &drinks.ID)
	juice := mustProduct(t, svc, "Juice", "200.50", &drinks.ID)
	water := mustProduct(t, svc, "Water", "", &drinks.ID)
	chips := mustProduct(t, svc, "Chips", "50", &snacks.ID)

	result, err := svc.Pricing.ApplyCategoryDiscount(ctx, drinks.ID, dec("10"))
	require.NoError(t, err)
	assert.True(t, result.Category.DiscountPercentage.Equal(dec("10")))
	require.Len(t, result.UpdatedProducts, 2)

	assert.True(t, reloadProduct(t, db, cola.ID).Price.Decimal.Equal(dec("90")))
	assert.True(t, reloadProduct(t, db, juice.ID).Price.Decimal.Equal(dec("180.45")))
	assert.False(t, reloadProduct(t, db, water.ID).Price.Valid, "unpriced product stays unpriced")
	assert.True(t, reloadProduct(t, db, chips.ID).Price.Decimal.Equal(dec("50")), "other categories untouched")

	history := historyOf(t, db, cola.ID)
	require.Len(t, history, 1)
	assert.True(t, history[0].Price.Equal(dec("90")))
	require.NotNil(t, history[0].Reason)
	assert.Equal(t, models.PriceReasonDiscount, *history[0].Reason)
	assert.Empty(t, historyOf(t, db, water.ID))
	assert.Empty(t, historyOf(t, db, chips.ID))

	var stored models.Category
	require.NoError(t, db.First(&stored, "id = ?", drinks.ID).Error)
	assert.True(t, stored.DiscountPercentage.Equal(dec("10")))
}

func TestApplyCategoryDiscountCompounds(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	c := mustCategory(t, svc, "Dairy")
	p := mustProduct(t, svc, "Milk", "200", &c.ID)

	for range 2 {
		_, err := svc.Pricing.ApplyCategoryDiscount(ctx, c.ID, dec("10"))
		require.NoError(t, err)
	}

	assert.True(t, reloadProduct(t, db, p.ID).Price.Decimal.Equal(dec("162")))
	history := historyOf(t, db, p.ID)
	require.Len(t, history, 2)
	assert.True(t, history[0].Price.Equal(dec("180")))
	assert.True(t, history[1].Price.Equal(dec("162")))
}

func TestApplyCategoryDiscountBounds(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	c := mustCategory(t, svc, "Bakery")
	p := mustProduct(t, svc, "Bread", "12.34", &c.ID)

	_, err := svc.Pricing.ApplyCategoryDiscount(ctx, c.ID, dec("0"))
	require.NoError(t, err)
	assert.True(t, reloadProduct(t, db, p.ID).Price.Decimal.Equal(dec("12.34")))
	assert.Len(t, historyOf(t, db, p.ID), 1, "a zero discount is still a recorded event")

	_, err = svc.Pricing.ApplyCategoryDiscount(ctx, c.ID, dec("100"))
	require.NoError(t, err)
	assert.True(t, reloadProduct(t, db, p.ID).Price.Decimal.IsZero())

	for _, bad := range []string{"-0.01", "100.01", "250"} {
		_, err = svc.Pricing.ApplyCategoryDiscount(ctx, c.ID, dec(bad))
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, bad)
	}
	assert.Len(t, historyOf(t, db, p.ID), 2)
}

func TestApplyCategoryDiscountMissingCategory(t *testing.T) {
	svc, db := setupServices(t)

	_, err := svc.Pricing.ApplyCategoryDiscount(context.Background(), "missing", dec("10"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.PriceHistory{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyCategoryDiscountRollsBackOnFailure(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	c := mustCategory(t, svc, "Frozen")
	first := mustProduct(t, svc, "Ice Cream", "10", &c.ID)
	second := mustProduct(t, svc, "Pizza", "20", &c.ID)

	appends := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_second_history", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "price_history" {
			appends++
			if appends == 2 {
				tx.AddError(errors.New("disk full"))
			}
		}
	}))

	_, err := svc.Pricing.ApplyCategoryDiscount(ctx, c.ID, dec("50"))
	require.ErrorIs(t, err, apperrors.ErrStorage)

	assert.True(t, reloadProduct(t, db, first.ID).Price.Decimal.Equal(dec("10")))
	assert.True(t, reloadProduct(t, db, second.ID).Price.Decimal.Equal(dec("20")))
	assert.Empty(t, historyOf(t, db, first.ID))

	var stored models.Category
	require.NoError(t, db.First(&stored, "id = ?", c.ID).Error)
	assert.True(t, stored.DiscountPercentage.IsZero())
}

func TestSetProductPrice(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	p := mustProduct(t, svc, "Coffee", "15", nil)

	updated, err := svc.Pricing.SetProductPrice(ctx, p.ID, dec("17.5"), "")
	require.NoError(t, err)
	assert.True(t, updated.Price.Decimal.Equal(dec("17.5")))

	_, err = svc.Pricing.SetProductPrice(ctx, p.ID, dec("17.50"), "")
	require.NoError(t, err)

	history := historyOf(t, db, p.ID)
	require.Len(t, history, 1, "unchanged price writes no history")
	assert.Equal(t, models.PriceReasonManual, *history[0].Reason)

	_, err = svc.Pricing.SetProductPrice(ctx, p.ID, dec("-1"), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Pricing.SetProductPrice(ctx, "missing", dec("1"), "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
