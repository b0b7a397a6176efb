package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/calc"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountResult struct {
	Category        *models.Category
	UpdatedProducts []models.UpdatedProduct
}

// PricingService owns every write to Product.price. Each price change and
// its ledger row are committed together or not at all.
type PricingService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	historyRepo  repositories.PriceHistoryRepositoryImpl
	now          func() time.Time
}

func NewPricingService(
	db *gorm.DB,
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	historyRepo repositories.PriceHistoryRepositoryImpl,
) *PricingService {
	return &PricingService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		historyRepo:  historyRepo,
		now:          time.Now,
	}
}

// ApplyCategoryDiscount stores discountPercent on the category and reprices
// every member product from its current price. Calls compound: applying 10
// twice leaves 81% of the original price. Products without a price are
// skipped. Any failure rolls back the category update and every product.
func (s *PricingService) ApplyCategoryDiscount(ctx context.Context, categoryID string, discountPercent decimal.Decimal) (*DiscountResult, error) {
	if !calc.ValidDiscountPercent(discountPercent) {
		return nil, apperrors.InvalidArgument("discount_percentage must be between 0 and 100")
	}

	result := &DiscountResult{UpdatedProducts: make([]models.UpdatedProduct, 0)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		category, err := categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return apperrors.Storage(fmt.Errorf("failed to load category: %w", err))
		}
		if category == nil {
			return apperrors.NotFound("category %s not found", categoryID)
		}

		if err := categoryRepo.UpdateDiscount(ctx, categoryID, discountPercent); err != nil {
			return apperrors.Storage(fmt.Errorf("failed to update category discount: %w", err))
		}
		category.DiscountPercentage = discountPercent
		result.Category = category

		products, err := productRepo.GetByCategoryForUpdate(ctx, categoryID)
		if err != nil {
			return apperrors.Storage(fmt.Errorf("failed to load category products: %w", err))
		}

		now := s.now()
		for i := range products {
			product := &products[i]
			if !product.Price.Valid {
				continue
			}
			newPrice := calc.ApplyDiscount(product.Price.Decimal, discountPercent)
			if err := recordPrice(ctx, productRepo, historyRepo, product, newPrice, models.PriceReasonDiscount, now); err != nil {
				return err
			}
			result.UpdatedProducts = append(result.UpdatedProducts, models.UpdatedProduct{
				ProductID:  product.ID,
				Name:       product.Name,
				Price:      newPrice,
				CategoryID: product.CategoryID,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStorage) {
			log.Printf("PricingService.ApplyCategoryDiscount: rolled back discount for category %s: %v", categoryID, err)
		}
		return nil, err
	}

	log.Printf("PricingService.ApplyCategoryDiscount: category %s discount %s%%, %d products repriced", categoryID, discountPercent.String(), len(result.UpdatedProducts))
	return result, nil
}

// SetProductPrice sets an explicit price. An unchanged price writes nothing.
func (s *PricingService) SetProductPrice(ctx context.Context, productID string, price decimal.Decimal, reason string) (*models.Product, error) {
	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		var err error
		product, err = productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return apperrors.Storage(fmt.Errorf("failed to load product: %w", err))
		}
		if product == nil {
			return apperrors.NotFound("product %s not found", productID)
		}
		return s.setPriceTx(ctx, tx, product, price, reason)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// setPriceTx applies a manual price change to an already locked product
// inside tx.
func (s *PricingService) setPriceTx(ctx context.Context, tx *gorm.DB, product *models.Product, price decimal.Decimal, reason string) error {
	if price.IsNegative() {
		return apperrors.InvalidArgument("price must not be negative")
	}
	price = price.Round(2)
	if product.Price.Valid && product.Price.Decimal.Equal(price) {
		return nil
	}
	if reason == "" {
		reason = models.PriceReasonManual
	}
	return recordPrice(ctx, s.productRepo.WithTx(tx), s.historyRepo.WithTx(tx), product, price, reason, s.now())
}

func recordPrice(
	ctx context.Context,
	productRepo repositories.ProductRepositoryImpl,
	historyRepo repositories.PriceHistoryRepositoryImpl,
	product *models.Product,
	price decimal.Decimal,
	reason string,
	at time.Time,
) error {
	if err := productRepo.UpdatePrice(ctx, product.ID, price); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to update price of product %s: %w", product.ID, err))
	}
	entry := &models.PriceHistory{
		ProductID: product.ID,
		Price:     price,
		Date:      at,
		Reason:    &reason,
	}
	if err := historyRepo.Append(ctx, entry); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to append price history for product %s: %w", product.ID, err))
	}
	product.Price = decimal.NewNullDecimal(price)
	return nil
}
