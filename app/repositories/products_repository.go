package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ProductSortColumns = pagination.SortColumns{
	Columns: map[string]string{"id": "id", "name": "name", "price": "price", "brand": "brand", "category_id": "category_id"},
	Default: "name",
}

type ProductFilter struct {
	CategoryID string
	Name       string
	Brand      string
}

type ProductRepositoryImpl interface {
	WithTx(tx *gorm.DB) ProductRepositoryImpl
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	FindByName(ctx context.Context, name, excludeID string) (*models.Product, error)
	GetByCategoryForUpdate(ctx context.Context, categoryID string) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter, params pagination.Params) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateDetails(ctx context.Context, product *models.Product) error
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error
	DetachCategory(ctx context.Context, categoryID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
	Each(ctx context.Context, fn func([]models.Product) error) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) WithTx(tx *gorm.DB) ProductRepositoryImpl {
	return &productRepository{tx}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return p.first(p.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (p *productRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return p.first(p.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (p *productRepository) FindByName(ctx context.Context, name, excludeID string) (*models.Product, error) {
	q := p.db.WithContext(ctx).Where("LOWER(TRIM(name)) = ?", normalizeName(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return p.first(q)
}

func (p *productRepository) first(q *gorm.DB) (*models.Product, error) {
	var product models.Product
	if err := q.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByCategoryForUpdate(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&products).Error
	return products, err
}

func (p *productRepository) List(ctx context.Context, filter ProductFilter, params pagination.Params) ([]models.Product, int64, error) {
	q := p.db.Model(&models.Product{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(filter.Name))
	}
	if filter.Brand != "" {
		q = q.Where("LOWER(brand) LIKE ?", likePattern(filter.Brand))
	}
	return pagination.Paginate[models.Product](ctx, q, params, ProductSortColumns)
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

// UpdateDetails writes every column except price, which only changes
// together with a price history row.
func (p *productRepository) UpdateDetails(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Model(product).Select("name", "description", "brand", "category_id").Updates(product).Error
}

func (p *productRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	return p.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("price", price).Error
}

func (p *productRepository) DetachCategory(ctx context.Context, categoryID string) (int64, error) {
	result := p.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Update("category_id", nil)
	return result.RowsAffected, result.Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var existing []string
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

func (p *productRepository) Each(ctx context.Context, fn func([]models.Product) error) error {
	return eachBatch(ctx, p.db, fn)
}
