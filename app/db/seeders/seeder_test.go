package seeders

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/models/migrations"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/format"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*services.Services, *gorm.DB) {
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
	tokens := sessions.NewTokenManager([]byte("seeder-test-hash-key-0123456789a"), nil)
	return services.New(db, tokens, format.NewMoney("R$ ")), db
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDBSeedFromCSV(t *testing.T) {
	svc, db := setup(t)
	dir := t.TempDir()
	writeFile(t, dir, "categories.csv", "id,name,description,discount_percentage\ncat-1,Bebidas,Drinks,0\n")
	writeFile(t, dir, "products.csv", "id,name,price,brand,category_id\nprod-1,Suco,5.00,Sol,cat-1\nprod-2,Agua,2.00,Sol,cat-1\n")
	writeFile(t, dir, "sales.csv", "product_id,quantity,total_price,date\nprod-1,2,10.00,2024-01-15\nprod-2,1,2.00,2024-01-16\n")

	err := DBSeed(context.Background(), svc, Options{DataDir: dir, AdminEmail: "admin@smartmart.test", AdminPassword: "secret123"})
	require.NoError(t, err)

	var categories, products, sales, users int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.Sale{}).Count(&sales)
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&users)
	assert.EqualValues(t, 1, categories)
	assert.EqualValues(t, 2, products)
	assert.EqualValues(t, 2, sales)
	assert.EqualValues(t, 1, users)

	// a second run keeps the existing admin
	require.NoError(t, DBSeed(context.Background(), svc, Options{DataDir: t.TempDir(), AdminEmail: "admin@smartmart.test", AdminPassword: "secret123"}))
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

func TestDBSeedFakes(t *testing.T) {
	svc, db := setup(t)

	require.NoError(t, DBSeed(context.Background(), svc, Options{DataDir: t.TempDir(), Fake: 4}))

	var categories, products, sales int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.Sale{}).Count(&sales)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 4, products)
	assert.GreaterOrEqual(t, sales, int64(4))
}
