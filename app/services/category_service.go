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

type CategoryInput struct {
	Name               string           `json:"name" validate:"required,max=100"`
	Description        string           `json:"description"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
}

// CategoryPatch updates only the fields that are present. Changing
// discount_percentage here does not reprice products; the discount
// endpoint does that.
type CategoryPatch struct {
	Name               *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description        *string          `json:"description"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
}

type CategoryService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	validator    *validator.Validate
}

func NewCategoryService(db *gorm.DB, categoryRepo repositories.CategoryRepositoryImpl, productRepo repositories.ProductRepositoryImpl, v *validator.Validate) *CategoryService {
	return &CategoryService{db: db, categoryRepo: categoryRepo, productRepo: productRepo, validator: v}
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := helpers.ValidateStruct(s.validator, input); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if input.DiscountPercentage != nil {
		category.DiscountPercentage = *input.DiscountPercentage
	}
	if err := s.create(ctx, s.categoryRepo, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) create(ctx context.Context, repo repositories.CategoryRepositoryImpl, category *models.Category) error {
	if category.Name == "" {
		return apperrors.Validation(map[string]string{"name": "is required"})
	}
	if err := checkCategoryName(ctx, repo, category.Name, ""); err != nil {
		return err
	}
	if err := repo.Create(ctx, category); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to create category: %w", err))
	}
	return nil
}

func checkCategoryName(ctx context.Context, repo repositories.CategoryRepositoryImpl, name, excludeID string) error {
	existing, err := repo.FindByName(ctx, name, excludeID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("failed to check category name: %w", err))
	}
	if existing != nil {
		return apperrors.InvalidArgument("category %q already exists", name)
	}
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if category == nil {
		return nil, apperrors.NotFound("category %s not found", id)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, filter repositories.CategoryFilter, params pagination.Params) (*models.Page[models.Category], error) {
	items, total, err := s.categoryRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Category]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit}, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	if err := helpers.ValidateStruct(s.validator, patch); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.Validation(map[string]string{"name": "is required"})
		}
		if err := checkCategoryName(ctx, s.categoryRepo, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.DiscountPercentage != nil {
		category.DiscountPercentage = *patch.DiscountPercentage
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to update category: %w", err))
	}
	return category, nil
}

// Delete detaches the category's products before removing it; products
// themselves are kept.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		detached, err = s.productRepo.WithTx(tx).DetachCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}
		if err := s.categoryRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("CategoryService.Delete: %s: %v", id, err)
		return apperrors.Storage(err)
	}
	log.Printf("CategoryService.Delete: category %s deleted, %d products detached", id, detached)
	return nil
}
