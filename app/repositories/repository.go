package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

const exportBatchSize = 500

// normalizeName is the comparison key for case-insensitive unique names.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// eachBatch walks a table in primary-key order without loading it whole.
func eachBatch[T any](ctx context.Context, db *gorm.DB, fn func([]T) error) error {
	var batch []T
	return db.WithContext(ctx).FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}
