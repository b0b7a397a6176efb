package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var saleDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Message       string           `json:"message"`
	ImportedCount int              `json:"imported_count"`
	Errors        []ImportRowError `json:"errors"`
}

// csvTable is a parsed upload with columns addressed by lower-cased header.
type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func readCSV(r io.Reader, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.InvalidArgument("csv file is empty")
		}
		return nil, apperrors.InvalidArgument("malformed csv header: %v", err)
	}

	table := &csvTable{columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		table.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := table.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidArgument("missing required column(s): %s", strings.Join(missing, ", "))
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.InvalidArgument("malformed csv: %v", err)
		}
		table.rows = append(table.rows, record)
	}
	return table, nil
}

func (t *csvTable) get(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *csvTable) optional(record []string, column string) *string {
	v := t.get(record, column)
	if v == "" {
		return nil
	}
	return &v
}

func parseDecimal(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.Validation(map[string]string{column: "must be a number"})
	}
	return d, nil
}

func parseSaleDate(raw string) (time.Time, error) {
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.Validation(map[string]string{"date": "must be a date (YYYY-MM-DD or RFC3339)"})
}

// CSVImporter loads uploads row by row inside one transaction. Rows that
// fail validation are reported and skipped; a storage failure rolls back the
// whole file.
type CSVImporter struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	saleRepo     repositories.SaleRepositoryImpl
	historyRepo  repositories.PriceHistoryRepositoryImpl
	userRepo     repositories.UserRepositoryImpl
	categories   *CategoryService
	products     *ProductService
	sales        *SaleService
	users        *UserService
	validator    *validator.Validate
	now          func() time.Time
}

func NewCSVImporter(
	db *gorm.DB,
	categories *CategoryService,
	products *ProductService,
	sales *SaleService,
	users *UserService,
	v *validator.Validate,
) *CSVImporter {
	return &CSVImporter{
		db:           db,
		categoryRepo: categories.categoryRepo,
		productRepo:  products.productRepo,
		saleRepo:     sales.saleRepo,
		historyRepo:  products.historyRepo,
		userRepo:     users.userRepo,
		categories:   categories,
		products:     products,
		sales:        sales,
		users:        users,
		validator:    v,
		now:          time.Now,
	}
}

type rowFunc func(ctx context.Context, tx *gorm.DB, table *csvTable, record []string) error

func (i *CSVImporter) run(ctx context.Context, entity string, table *csvTable, insert rowFunc) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]ImportRowError, 0)}
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for n, record := range table.rows {
			err := insert(ctx, tx, table, record)
			if err == nil {
				result.ImportedCount++
				continue
			}
			if apperrors.IsStorage(err) {
				return fmt.Errorf("row %d: %w", n+1, err)
			}
			result.Errors = append(result.Errors, ImportRowError{Row: n + 1, Error: apperrors.Message(err)})
		}
		return nil
	})
	if err != nil {
		log.Printf("CSVImporter.%s: import rolled back: %v", entity, err)
		return nil, err
	}

	result.Message = fmt.Sprintf("%d of %d %s imported", result.ImportedCount, len(table.rows), entity)
	log.Printf("CSVImporter.%s: %s, %d rows rejected", entity, result.Message, len(result.Errors))
	return result, nil
}

func (i *CSVImporter) ImportCategories(ctx context.Context, r io.Reader) (*ImportResult, error) {
	table, err := readCSV(r, "name")
	if err != nil {
		return nil, err
	}
	return i.run(ctx, "categories", table, i.categoryRow)
}

func (i *CSVImporter) categoryRow(ctx context.Context, tx *gorm.DB, table *csvTable, record []string) error {
	repo := i.categoryRepo.WithTx(tx)
	category := &models.Category{
		Name:        table.get(record, "name"),
		Description: table.get(record, "description"),
	}
	if raw := table.get(record, "discount_percentage"); raw != "" {
		pct, err := parseDecimal("discount_percentage", raw)
		if err != nil {
			return err
		}
		if !calc.ValidDiscountPercent(pct) {
			return apperrors.Validation(map[string]string{"discount_percentage": "must be between 0 and 100"})
		}
		category.DiscountPercentage = pct
	}
	if id := table.get(record, "id"); id != "" {
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return apperrors.Storage(err)
		}
		if existing != nil {
			return apperrors.InvalidArgument("category id %s already exists", id)
		}
		category.ID = id
	}
	return i.categories.create(ctx, repo, category)
}

func (i *CSVImporter) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	table, err := readCSV(r, "name")
	if err != nil {
		return nil, err
	}
	return i.run(ctx, "products", table, i.productRow)
}

func (i *CSVImporter) productRow(ctx context.Context, tx *gorm.DB, table *csvTable, record []string) error {
	productRepo := i.productRepo.WithTx(tx)
	product := &models.Product{
		Name:        table.get(record, "name"),
		Description: table.get(record, "description"),
		Brand:       table.get(record, "brand"),
		CategoryID:  table.optional(record, "category_id"),
	}
	if raw := table.get(record, "price"); raw != "" {
		price, err := parseDecimal("price", raw)
		if err != nil {
			return err
		}
		product.Price = decimal.NewNullDecimal(price.Round(2))
	}
	if id := table.get(record, "id"); id != "" {
		existing, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return apperrors.Storage(err)
		}
		if existing != nil {
			return apperrors.InvalidArgument("product id %s already exists", id)
		}
		product.ID = id
	}

	if err := i.products.create(ctx, productRepo, i.categoryRepo.WithTx(tx), product); err != nil {
		return err
	}
	if !product.Price.Valid {
		return nil
	}
	reason := models.PriceReasonImport
	entry := &models.PriceHistory{ProductID: product.ID, Price: product.Price.Decimal, Date: i.now(), Reason: &reason}
	if err := i.historyRepo.WithTx(tx).Append(ctx, entry); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to append price history: %w", err))
	}
	return nil
}

func (i *CSVImporter) ImportSales(ctx context.Context, r io.Reader) (*ImportResult, error) {
	table, err := readCSV(r, "product_id", "quantity", "total_price")
	if err != nil {
		return nil, err
	}
	return i.run(ctx, "sales", table, i.saleRow)
}

func (i *CSVImporter) saleRow(ctx context.Context, tx *gorm.DB, table *csvTable, record []string) error {
	sale := &models.Sale{ProductID: table.get(record, "product_id"), Date: i.now()}
	if sale.ProductID == "" {
		return apperrors.Validation(map[string]string{"product_id": "is required"})
	}

	quantity, err := strconv.Atoi(table.get(record, "quantity"))
	if err != nil {
		return apperrors.Validation(map[string]string{"quantity": "must be an integer"})
	}
	sale.Quantity = quantity

	total, err := parseDecimal("total_price", table.get(record, "total_price"))
	if err != nil {
		return err
	}
	sale.TotalPrice = total.Round(2)

	if raw := table.get(record, "date"); raw != "" {
		if sale.Date, err = parseSaleDate(raw); err != nil {
			return err
		}
	}
	if id := table.get(record, "id"); id != "" {
		existing, err := i.saleRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return apperrors.Storage(err)
		}
		if existing != nil {
			return apperrors.InvalidArgument("sale id %s already exists", id)
		}
		sale.ID = id
	}
	return i.sales.create(ctx, i.saleRepo.WithTx(tx), i.productRepo.WithTx(tx), sale)
}

func (i *CSVImporter) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	table, err := readCSV(r, "email", "username", "password")
	if err != nil {
		return nil, err
	}
	return i.run(ctx, "users", table, i.userRow)
}

func (i *CSVImporter) userRow(ctx context.Context, tx *gorm.DB, table *csvTable, record []string) error {
	input := UserInput{
		Email:    normalizeEmail(table.get(record, "email")),
		Username: table.get(record, "username"),
		Password: table.get(record, "password"),
		Role:     models.Role(strings.ToLower(table.get(record, "role"))),
	}
	if err := helpers.ValidateStruct(i.validator, input); err != nil {
		return err
	}
	_, err := i.users.create(ctx, i.userRepo.WithTx(tx), input)
	return err
}
