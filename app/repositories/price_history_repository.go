package repositories

import (
	"context"

	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var PriceHistorySortColumns = pagination.SortColumns{
	Columns: map[string]string{"date": "date", "price": "price"},
	Default: "date",
}

// PriceHistoryRepositoryImpl has no update: the ledger is append-only.
// DeleteByProduct exists only for removing a product together with its rows.
type PriceHistoryRepositoryImpl interface {
	WithTx(tx *gorm.DB) PriceHistoryRepositoryImpl
	Append(ctx context.Context, entry *models.PriceHistory) error
	ListByProduct(ctx context.Context, productID string, params pagination.Params) ([]models.PriceHistory, int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	Each(ctx context.Context, fn func([]models.PriceHistory) error) error
}

type priceHistoryRepository struct {
	db *gorm.DB
}

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepositoryImpl {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) WithTx(tx *gorm.DB) PriceHistoryRepositoryImpl {
	return &priceHistoryRepository{db: tx}
}

func (r *priceHistoryRepository) Append(ctx context.Context, entry *models.PriceHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *priceHistoryRepository) ListByProduct(ctx context.Context, productID string, params pagination.Params) ([]models.PriceHistory, int64, error) {
	q := r.db.Model(&models.PriceHistory{}).Where("product_id = ?", productID)
	return pagination.Paginate[models.PriceHistory](ctx, q, params, PriceHistorySortColumns)
}

func (r *priceHistoryRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.PriceHistory{})
	return result.RowsAffected, result.Error
}

func (r *priceHistoryRepository) Each(ctx context.Context, fn func([]models.PriceHistory) error) error {
	return eachBatch(ctx, r.db, fn)
}
