package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/calc"
	"github.com/Rakhulsr/go-smartmart/app/utils/format"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultProfitDays = 365

type SaleInput struct {
	ProductID  string           `json:"product_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
	Date       *time.Time       `json:"date"`
}

type SalePatch struct {
	ProductID  *string          `json:"product_id" validate:"omitempty,min=1"`
	Quantity   *int             `json:"quantity" validate:"omitempty,min=1"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
	Date       *time.Time       `json:"date"`
}

type ProfitSummary struct {
	TotalProfit          decimal.Decimal         `json:"total_profit"`
	TotalProfitFormatted string                  `json:"total_profit_formatted"`
	Days                 int                     `json:"days"`
	Name                 *string                 `json:"name"`
	Sales                []models.SaleWithProfit `json:"sales"`
}

type SaleService struct {
	db          *gorm.DB
	saleRepo    repositories.SaleRepositoryImpl
	productRepo repositories.ProductRepositoryImpl
	money       *format.Money
	validator   *validator.Validate
	now         func() time.Time
}

func NewSaleService(db *gorm.DB, saleRepo repositories.SaleRepositoryImpl, productRepo repositories.ProductRepositoryImpl, money *format.Money, v *validator.Validate) *SaleService {
	return &SaleService{
		db:          db,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		money:       money,
		validator:   v,
		now:         time.Now,
	}
}

func withProfit(sales []models.Sale) []models.SaleWithProfit {
	out := make([]models.SaleWithProfit, 0, len(sales))
	for _, sale := range sales {
		out = append(out, models.SaleWithProfit{Sale: sale, Profit: calc.Profit(sale.TotalPrice)})
	}
	return out
}

// Since converts a day window into a cutoff. days <= 0 means no cutoff.
func (s *SaleService) Since(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	cutoff := s.now().AddDate(0, 0, -days)
	return &cutoff
}

func (s *SaleService) Create(ctx context.Context, input SaleInput) (*models.Sale, error) {
	if err := helpers.ValidateStruct(s.validator, input); err != nil {
		return nil, err
	}
	// required would reject a zero total once the decimal is read as a number
	if input.TotalPrice == nil {
		return nil, apperrors.Validation(map[string]string{"total_price": "is required"})
	}
	sale := &models.Sale{
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		TotalPrice: input.TotalPrice.Round(2),
		Date:       s.now(),
	}
	if input.Date != nil {
		sale.Date = *input.Date
	}
	if err := s.create(ctx, s.saleRepo, s.productRepo, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) create(ctx context.Context, saleRepo repositories.SaleRepositoryImpl, productRepo repositories.ProductRepositoryImpl, sale *models.Sale) error {
	if sale.Quantity < 1 {
		return apperrors.Validation(map[string]string{"quantity": "must be at least 1"})
	}
	if sale.TotalPrice.IsNegative() {
		return apperrors.Validation(map[string]string{"total_price": "must be greater than or equal to 0"})
	}
	if err := checkProductExists(ctx, productRepo, sale.ProductID); err != nil {
		return err
	}
	if err := saleRepo.Create(ctx, sale); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to create sale: %w", err))
	}
	return nil
}

func checkProductExists(ctx context.Context, repo repositories.ProductRepositoryImpl, productID string) error {
	product, err := repo.GetByID(ctx, productID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("failed to load product: %w", err))
	}
	if product == nil {
		return apperrors.NotFound("product %s not found", productID)
	}
	return nil
}

func (s *SaleService) Get(ctx context.Context, id string) (*models.SaleWithProfit, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if sale == nil {
		return nil, apperrors.NotFound("sale %s not found", id)
	}
	return &models.SaleWithProfit{Sale: *sale, Profit: calc.Profit(sale.TotalPrice)}, nil
}

func (s *SaleService) List(ctx context.Context, filter repositories.SaleFilter, params pagination.Params) (*models.Page[models.SaleWithProfit], error) {
	sales, total, err := s.saleRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.SaleWithProfit]{Items: withProfit(sales), Total: total, Skip: params.Skip, Limit: params.Limit}, nil
}

func (s *SaleService) Update(ctx context.Context, id string, patch SalePatch) (*models.Sale, error) {
	if err := helpers.ValidateStruct(s.validator, patch); err != nil {
		return nil, err
	}
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if sale == nil {
		return nil, apperrors.NotFound("sale %s not found", id)
	}

	if patch.ProductID != nil && *patch.ProductID != sale.ProductID {
		if err := checkProductExists(ctx, s.productRepo, *patch.ProductID); err != nil {
			return nil, err
		}
		sale.ProductID = *patch.ProductID
	}
	if patch.Quantity != nil {
		sale.Quantity = *patch.Quantity
	}
	if patch.TotalPrice != nil {
		sale.TotalPrice = patch.TotalPrice.Round(2)
	}
	if patch.Date != nil {
		sale.Date = *patch.Date
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to update sale: %w", err))
	}
	return sale, nil
}

func (s *SaleService) Delete(ctx context.Context, id string) error {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return apperrors.Storage(err)
	}
	if sale == nil {
		return apperrors.NotFound("sale %s not found", id)
	}
	if err := s.saleRepo.Delete(ctx, id); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to delete sale: %w", err))
	}
	return nil
}

// TotalProfit sums the profit of sales in the last days days, optionally
// for one product. Name is the product's name when productID is given.
func (s *SaleService) TotalProfit(ctx context.Context, days int, productID string) (*ProfitSummary, error) {
	if days < 1 {
		return nil, apperrors.InvalidArgument("days must be at least 1")
	}

	summary := &ProfitSummary{Days: days}
	if productID != "" {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, apperrors.Storage(err)
		}
		if product != nil {
			summary.Name = &product.Name
		}
	}

	sales, err := s.saleRepo.FindAll(ctx, repositories.SaleFilter{ProductID: productID, Since: s.Since(days)})
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to load sales: %w", err))
	}

	summary.Sales = withProfit(sales)
	totals := make([]decimal.Decimal, 0, len(sales))
	for _, sale := range sales {
		totals = append(totals, sale.TotalPrice)
	}
	summary.TotalProfit = calc.TotalProfit(totals)
	summary.TotalProfitFormatted = s.money.Format(summary.TotalProfit)
	return summary, nil
}

// RemoveOrphanSales deletes sales whose product no longer exists and
// returns what was removed.
func (s *SaleService) RemoveOrphanSales(ctx context.Context) ([]models.Sale, error) {
	var orphans []models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saleRepo := s.saleRepo.WithTx(tx)

		var err error
		orphans, err = saleRepo.FindOrphans(ctx)
		if err != nil {
			return fmt.Errorf("failed to find orphan sales: %w", err)
		}
		ids := make([]string, 0, len(orphans))
		for _, sale := range orphans {
			ids = append(ids, sale.ID)
		}
		if _, err := saleRepo.DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete orphan sales: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("SaleService.RemoveOrphanSales: %v", err)
		return nil, apperrors.Storage(err)
	}
	return orphans, nil
}
