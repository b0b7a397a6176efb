package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestImportProducts(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	c := mustCategory(t, svc, "Beverages")
	mustProduct(t, svc, "Existing", "1", nil)

	file := "Name,Price,Brand,Category_ID,Description\n" +
		"Lemonade,3.50,Sun," + c.ID + ",fresh\n" +
		"Espresso,,Bean,,\n" +
		"existing,2,X,,duplicate of a stored product\n" +
		"Lemonade,4,Sun,,duplicate of an earlier row\n" +
		"Mystery,1,X,no-such-category,\n" +
		"Cheap,abc,X,,\n" +
		",1,X,,\n"

	result, err := svc.Importer.ImportProducts(ctx, strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ImportedCount)

	rows := make([]int, 0, len(result.Errors))
	for _, e := range result.Errors {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, rows)

	var lemonade models.Product
	require.NoError(t, db.First(&lemonade, "name = ?", "Lemonade").Error)
	assert.True(t, lemonade.Price.Decimal.Equal(dec("3.5")))
	assert.Equal(t, c.ID, *lemonade.CategoryID)

	history := historyOf(t, db, lemonade.ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.PriceReasonImport, *history[0].Reason)

	var espresso models.Product
	require.NoError(t, db.First(&espresso, "name = ?", "Espresso").Error)
	assert.False(t, espresso.Price.Valid)
	assert.Nil(t, espresso.CategoryID)
}

func TestImportMissingHeader(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.Importer.ImportSales(context.Background(), strings.NewReader("product_id,quantity\nabc,1\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "total_price")

	_, err = svc.Importer.ImportCategories(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestImportSalesAndCategories(t *testing.T) {
	svc, db := setupServices(t)
	ctx := context.Background()

	result, err := svc.Importer.ImportCategories(ctx, strings.NewReader("id,name,description,discount_percentage\ncat-1,Fruit,,5\ncat-2,Veg,,150\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)

	result, err = svc.Importer.ImportProducts(ctx, strings.NewReader("id,name,price,category_id\nprod-1,Apple,2,cat-1\n"))
	require.NoError(t, err)
	require.Equal(t, 1, result.ImportedCount)

	file := "product_id,quantity,total_price,date\n" +
		"prod-1,3,6,2024-03-01\n" +
		"prod-1,1,2,2024-03-02 10:30:00\n" +
		"prod-1,0,2,2024-03-02\n" +
		"ghost,1,2,2024-03-02\n" +
		"prod-1,1,2,yesterday\n"
	result, err = svc.Importer.ImportSales(ctx, strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ImportedCount)
	assert.Len(t, result.Errors, 3)

	var sales []models.Sale
	require.NoError(t, db.Order("date").Find(&sales).Error)
	require.Len(t, sales, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sales[0].Date.UTC())
}

func TestImportRollsBackOnStorageFailure(t *testing.T) {
	svc, db := setupServices(t)

	inserts := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_category", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "categories" {
			inserts++
			if inserts == 3 {
				tx.AddError(errors.New("connection reset"))
			}
		}
	}))

	_, err := svc.Importer.ImportCategories(context.Background(), strings.NewReader("name\nA\nB\nC\nD\n"))
	require.ErrorIs(t, err, apperrors.ErrStorage)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImportUsers(t *testing.T) {
	svc, db := setupServices(t)

	file := "email,username,password,role\n" +
		"Ana@Example.com ,ana,secret123,admin\n" +
		"bad-email,bob,secret123,viewer\n" +
		"ana@example.com,ana2,secret123,\n" +
		"cy@example.com,cy,secret123,owner\n"
	result, err := svc.Importer.ImportUsers(context.Background(), strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Len(t, result.Errors, 3)

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "ana").Error)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
}

func TestExport(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	p := mustProduct(t, svc, "Cocoa", "7.25", nil)
	mustProduct(t, svc, "Unpriced", "", nil)
	mustSale(t, svc, p.ID, 2, "14.50", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	_, err := svc.Users.Create(ctx, UserInput{Email: "e@example.com", Username: "exporter", Password: "secret123"})
	require.NoError(t, err)

	read := func(entity string) [][]string {
		var buf bytes.Buffer
		require.NoError(t, svc.Exporter.Export(ctx, entity, &buf))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		return records
	}

	products := read("products")
	require.Len(t, products, 3)
	assert.Equal(t, []string{"id", "name", "description", "price", "category_id", "brand"}, products[0])

	sales := read("sales_with_profit")
	require.Len(t, sales, 2)
	assert.Equal(t, "profit", sales[0][5])
	assert.Equal(t, "2.9", sales[1][5])

	users := read("users")
	require.Len(t, users, 2)
	assert.NotContains(t, strings.Join(users[1], ","), "$2a$")

	assert.Len(t, read("price_history"), 1)
	assert.ErrorIs(t, svc.Exporter.Export(ctx, "passwords", &bytes.Buffer{}), apperrors.ErrNotFound)
}
