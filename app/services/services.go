package services

import (
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/format"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"gorm.io/gorm"
)

// Services is the wired set used by the HTTP layer and the CLI.
type Services struct {
	Categories *CategoryService
	Products   *ProductService
	Pricing    *PricingService
	Sales      *SaleService
	Users      *UserService
	Auth       *AuthService
	Importer   *CSVImporter
	Exporter   *CSVExporter
}

func New(db *gorm.DB, tokens *sessions.TokenManager, money *format.Money) *Services {
	v := helpers.NewValidator()

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	historyRepo := repositories.NewPriceHistoryRepository(db)
	userRepo := repositories.NewUserRepository(db)

	pricing := NewPricingService(db, categoryRepo, productRepo, historyRepo)
	categories := NewCategoryService(db, categoryRepo, productRepo, v)
	products := NewProductService(db, productRepo, categoryRepo, saleRepo, historyRepo, pricing, v)
	sales := NewSaleService(db, saleRepo, productRepo, money, v)
	users := NewUserService(userRepo, v)

	return &Services{
		Categories: categories,
		Products:   products,
		Pricing:    pricing,
		Sales:      sales,
		Users:      users,
		Auth:       NewAuthService(userRepo, tokens),
		Importer:   NewCSVImporter(db, categories, products, sales, users, v),
		Exporter:   NewCSVExporter(categoryRepo, productRepo, saleRepo, historyRepo, userRepo),
	}
}
