package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/calc"
	"github.com/shopspring/decimal"
)

type exportFunc func(ctx context.Context, w *csv.Writer) error

// CSVExporter streams whole tables as CSV in primary-key order.
type CSVExporter struct {
	exports map[string]exportFunc
	headers map[string][]string
}

func NewCSVExporter(
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	saleRepo repositories.SaleRepositoryImpl,
	historyRepo repositories.PriceHistoryRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
) *CSVExporter {
	e := &CSVExporter{
		headers: map[string][]string{
			"products":          {"id", "name", "description", "price", "category_id", "brand"},
			"categories":        {"id", "name", "description", "discount_percentage"},
			"sales":             {"id", "product_id", "quantity", "total_price", "date"},
			"sales_with_profit": {"id", "product_id", "quantity", "total_price", "date", "profit"},
			"users":             {"id", "email", "username", "role", "created_at"},
			"price_history":     {"id", "product_id", "price", "date", "reason"},
		},
	}

	e.exports = map[string]exportFunc{
		"products": func(ctx context.Context, w *csv.Writer) error {
			return productRepo.Each(ctx, func(batch []models.Product) error {
				for _, p := range batch {
					if err := w.Write([]string{p.ID, p.Name, p.Description, nullDecimal(p.Price), deref(p.CategoryID), p.Brand}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		"categories": func(ctx context.Context, w *csv.Writer) error {
			return categoryRepo.Each(ctx, func(batch []models.Category) error {
				for _, c := range batch {
					if err := w.Write([]string{c.ID, c.Name, c.Description, c.DiscountPercentage.String()}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		"sales": func(ctx context.Context, w *csv.Writer) error {
			return saleRepo.Each(ctx, func(batch []models.Sale) error {
				for _, s := range batch {
					if err := w.Write(saleRecord(s)); err != nil {
						return err
					}
				}
				return nil
			})
		},
		"sales_with_profit": func(ctx context.Context, w *csv.Writer) error {
			return saleRepo.Each(ctx, func(batch []models.Sale) error {
				for _, s := range batch {
					if err := w.Write(append(saleRecord(s), calc.Profit(s.TotalPrice).String())); err != nil {
						return err
					}
				}
				return nil
			})
		},
		"users": func(ctx context.Context, w *csv.Writer) error {
			return userRepo.Each(ctx, func(batch []models.User) error {
				for _, u := range batch {
					if err := w.Write([]string{u.ID, u.Email, u.Username, string(u.Role), u.CreatedAt.Format(time.RFC3339)}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		"price_history": func(ctx context.Context, w *csv.Writer) error {
			return historyRepo.Each(ctx, func(batch []models.PriceHistory) error {
				for _, h := range batch {
					if err := w.Write([]string{h.ID, h.ProductID, h.Price.String(), h.Date.Format(time.RFC3339), deref(h.Reason)}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	return e
}

func saleRecord(s models.Sale) []string {
	return []string{s.ID, s.ProductID, fmt.Sprint(s.Quantity), s.TotalPrice.String(), s.Date.Format(time.RFC3339)}
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (e *CSVExporter) Entities() []string {
	names := make([]string, 0, len(e.exports))
	for name := range e.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *CSVExporter) Supports(entity string) bool {
	_, ok := e.exports[entity]
	return ok
}

// Export writes the header and every row of entity to out.
func (e *CSVExporter) Export(ctx context.Context, entity string, out io.Writer) error {
	export, ok := e.exports[entity]
	if !ok {
		return apperrors.NotFound("unknown export %q", entity)
	}

	w := csv.NewWriter(out)
	if err := w.Write(e.headers[entity]); err != nil {
		return err
	}
	if err := export(ctx, w); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to export %s: %w", entity, err))
	}
	w.Flush()
	return w.Error()
}
