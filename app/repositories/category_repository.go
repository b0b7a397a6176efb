package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var CategorySortColumns = pagination.SortColumns{
	Columns: map[string]string{"id": "id", "name": "name", "discount_percentage": "discount_percentage"},
	Default: "name",
}

type CategoryFilter struct {
	Name string
}

type CategoryRepositoryImpl interface {
	WithTx(tx *gorm.DB) CategoryRepositoryImpl
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	FindByName(ctx context.Context, name, excludeID string) (*models.Category, error)
	List(ctx context.Context, filter CategoryFilter, params pagination.Params) ([]models.Category, int64, error)
	Update(ctx context.Context, category *models.Category) error
	UpdateDiscount(ctx context.Context, id string, discountPercent decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	Each(ctx context.Context, fn func([]models.Category) error) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindByName matches trimmed, case-insensitive names, ignoring excludeID so
// an entity never collides with itself on update.
func (r *categoryRepository) FindByName(ctx context.Context, name, excludeID string) (*models.Category, error) {
	var category models.Category
	q := r.db.WithContext(ctx).Where("LOWER(TRIM(name)) = ?", normalizeName(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter, params pagination.Params) ([]models.Category, int64, error) {
	q := r.db.Model(&models.Category{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(filter.Name))
	}
	return pagination.Paginate[models.Category](ctx, q, params, CategorySortColumns)
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) UpdateDiscount(ctx context.Context, id string, discountPercent decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("discount_percentage", discountPercent).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) Each(ctx context.Context, fn func([]models.Category) error) error {
	return eachBatch(ctx, r.db, fn)
}
