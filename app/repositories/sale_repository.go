package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// profit is derived from total_price, so it sorts by the same column.
var SaleSortColumns = pagination.SortColumns{
	Columns: map[string]string{
		"id":          "id",
		"product_id":  "product_id",
		"quantity":    "quantity",
		"total_price": "total_price",
		"date":        "date",
		"profit":      "total_price",
	},
	Default: "date",
}

type SaleFilter struct {
	ProductID string
	Since     *time.Time
}

func (f SaleFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ProductID != "" {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Since != nil {
		q = q.Where("date >= ?", *f.Since)
	}
	return q
}

type SaleRepositoryImpl interface {
	WithTx(tx *gorm.DB) SaleRepositoryImpl
	Create(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id string) (*models.Sale, error)
	List(ctx context.Context, filter SaleFilter, params pagination.Params) ([]models.Sale, int64, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]models.Sale, error)
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id string) error
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	FindOrphans(ctx context.Context) ([]models.Sale, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	Each(ctx context.Context, fn func([]models.Sale) error) error
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepositoryImpl {
	return &saleRepository{db: db}
}

func (r *saleRepository) WithTx(tx *gorm.DB) SaleRepositoryImpl {
	return &saleRepository{db: tx}
}

func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter, params pagination.Params) ([]models.Sale, int64, error) {
	q := filter.apply(r.db.Model(&models.Sale{}))
	return pagination.Paginate[models.Sale](ctx, q, params, SaleSortColumns)
}

func (r *saleRepository) FindAll(ctx context.Context, filter SaleFilter) ([]models.Sale, error) {
	var sales []models.Sale
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Sale{})).Order("date").Order("id").Find(&sales).Error
	return sales, err
}

func (r *saleRepository) Update(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Sale{})
	return result.RowsAffected, result.Error
}

// FindOrphans returns sales whose product row no longer exists.
func (r *saleRepository) FindOrphans(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (?)", r.db.Model(&models.Product{}).Select("1").Where("products.id = sales.product_id")).
		Order("id").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Sale{})
	return result.RowsAffected, result.Error
}

func (r *saleRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Sale{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *saleRepository) Each(ctx context.Context, fn func([]models.Sale) error) error {
	return eachBatch(ctx, r.db, fn)
}
