package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Brand       string           `json:"brand" validate:"max=100"`
	CategoryID  *string          `json:"category_id"`
}

// ProductPatch updates only the fields that are present. A price that
// differs from the stored one goes through the price ledger.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	CategoryID  *string          `json:"category_id"`
}

type ProductService struct {
	db           *gorm.DB
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	saleRepo     repositories.SaleRepositoryImpl
	historyRepo  repositories.PriceHistoryRepositoryImpl
	pricing      *PricingService
	validator    *validator.Validate
}

func NewProductService(
	db *gorm.DB,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	saleRepo repositories.SaleRepositoryImpl,
	historyRepo repositories.PriceHistoryRepositoryImpl,
	pricing *PricingService,
	v *validator.Validate,
) *ProductService {
	return &ProductService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		saleRepo:     saleRepo,
		historyRepo:  historyRepo,
		pricing:      pricing,
		validator:    v,
	}
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := helpers.ValidateStruct(s.validator, input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Brand:       strings.TrimSpace(input.Brand),
		CategoryID:  normalizeID(input.CategoryID),
	}
	if input.Price != nil {
		product.Price = decimal.NewNullDecimal(input.Price.Round(2))
	}
	if err := s.create(ctx, s.productRepo, s.categoryRepo, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) create(ctx context.Context, productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, product *models.Product) error {
	if product.Name == "" {
		return apperrors.Validation(map[string]string{"name": "is required"})
	}
	if product.Price.Valid && product.Price.Decimal.IsNegative() {
		return apperrors.Validation(map[string]string{"price": "must be greater than or equal to 0"})
	}
	if err := checkProductName(ctx, productRepo, product.Name, ""); err != nil {
		return err
	}
	if err := checkCategoryExists(ctx, categoryRepo, product.CategoryID); err != nil {
		return err
	}
	if err := productRepo.Create(ctx, product); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to create product: %w", err))
	}
	return nil
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func checkProductName(ctx context.Context, repo repositories.ProductRepositoryImpl, name, excludeID string) error {
	existing, err := repo.FindByName(ctx, name, excludeID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("failed to check product name: %w", err))
	}
	if existing != nil {
		return apperrors.InvalidArgument("product %q already exists", name)
	}
	return nil
}

func checkCategoryExists(ctx context.Context, repo repositories.CategoryRepositoryImpl, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	category, err := repo.GetByID(ctx, *categoryID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("failed to load category: %w", err))
	}
	if category == nil {
		return apperrors.NotFound("category %s not found", *categoryID)
	}
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product %s not found", id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter, params pagination.Params) (*models.Page[models.Product], error) {
	items, total, err := s.productRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Product]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit}, nil
}

// Update applies patch in one transaction with the product row locked, so
// the field changes and any ledger row land together.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	if err := helpers.ValidateStruct(s.validator, patch); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		var err error
		product, err = productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return apperrors.Storage(fmt.Errorf("failed to load product: %w", err))
		}
		if product == nil {
			return apperrors.NotFound("product %s not found", id)
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return apperrors.Validation(map[string]string{"name": "is required"})
			}
			if err := checkProductName(ctx, productRepo, name, id); err != nil {
				return err
			}
			product.Name = name
		}
		if patch.Description != nil {
			product.Description = *patch.Description
		}
		if patch.Brand != nil {
			product.Brand = strings.TrimSpace(*patch.Brand)
		}
		if patch.CategoryID != nil {
			categoryID := normalizeID(patch.CategoryID)
			if err := checkCategoryExists(ctx, s.categoryRepo.WithTx(tx), categoryID); err != nil {
				return err
			}
			product.CategoryID = categoryID
		}

		if err := productRepo.UpdateDetails(ctx, product); err != nil {
			return apperrors.Storage(fmt.Errorf("failed to update product: %w", err))
		}

		if patch.Price != nil {
			return s.pricing.setPriceTx(ctx, tx, product, *patch.Price, models.PriceReasonManual)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsStorage(err) {
			log.Printf("ProductService.Update: %s: %v", id, err)
		}
		return nil, err
	}
	return product, nil
}

// Delete removes the product's sales and price history with it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var salesDeleted, historyDeleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if salesDeleted, err = s.saleRepo.WithTx(tx).DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("failed to delete sales: %w", err)
		}
		if historyDeleted, err = s.historyRepo.WithTx(tx).DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("failed to delete price history: %w", err)
		}
		if err := s.productRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("ProductService.Delete: %s: %v", id, err)
		return apperrors.Storage(err)
	}
	log.Printf("ProductService.Delete: product %s deleted with %d sales and %d price history rows", id, salesDeleted, historyDeleted)
	return nil
}

func (s *ProductService) PriceHistory(ctx context.Context, productID string, params pagination.Params) (*models.Page[models.PriceHistory], error) {
	items, total, err := s.historyRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, apperrors.NotFound("no price history for product %s", productID)
	}
	return &models.Page[models.PriceHistory]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit}, nil
}
