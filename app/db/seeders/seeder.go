package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/db/fakers"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/services"
)

type Options struct {
	DataDir       string
	AdminEmail    string
	AdminPassword string
	// Fake is the number of generated products, each with a few sales.
	Fake int
}

type Seeder struct {
	File   string
	Import func(ctx context.Context, svc *services.Services, f *os.File) (*services.ImportResult, error)
}

// SeedersRegister lists the CSV seeds in dependency order.
func SeedersRegister() []Seeder {
	return []Seeder{
		{File: "categories.csv", Import: func(ctx context.Context, svc *services.Services, f *os.File) (*services.ImportResult, error) {
			return svc.Importer.ImportCategories(ctx, f)
		}},
		{File: "products.csv", Import: func(ctx context.Context, svc *services.Services, f *os.File) (*services.ImportResult, error) {
			return svc.Importer.ImportProducts(ctx, f)
		}},
		{File: "sales.csv", Import: func(ctx context.Context, svc *services.Services, f *os.File) (*services.ImportResult, error) {
			return svc.Importer.ImportSales(ctx, f)
		}},
	}
}

func DBSeed(ctx context.Context, svc *services.Services, opts Options) error {
	for _, seeder := range SeedersRegister() {
		path := filepath.Join(opts.DataDir, seeder.File)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("DBSeed: %s not found, skipping", path)
			continue
		}
		if err != nil {
			return err
		}

		result, err := seeder.Import(ctx, svc, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("seeding %s: %w", path, err)
		}
		log.Printf("DBSeed: %s: %s", seeder.File, result.Message)
		for _, rowErr := range result.Errors {
			log.Printf("DBSeed: %s row %d: %s", seeder.File, rowErr.Row, rowErr.Error)
		}
	}

	if opts.AdminEmail != "" {
		if err := seedAdmin(ctx, svc, opts.AdminEmail, opts.AdminPassword); err != nil {
			return err
		}
	}

	if opts.Fake > 0 {
		return seedFakes(ctx, svc, opts.Fake)
	}
	return nil
}

func seedAdmin(ctx context.Context, svc *services.Services, email, password string) error {
	_, err := svc.Users.Create(ctx, services.UserInput{
		Email:    email,
		Username: "admin",
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, apperrors.ErrInvalidArgument) && apperrors.Details(err) == nil {
		log.Printf("DBSeed: admin not created: %s", apperrors.Message(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	log.Printf("DBSeed: admin user %s created", email)
	return nil
}

func seedFakes(ctx context.Context, svc *services.Services, n int) error {
	categoryIDs := make([]string, 0, 3)
	for len(categoryIDs) < 3 {
		category, err := svc.Categories.Create(ctx, fakers.CategoryFaker())
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			continue
		}
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	for i := 0; i < n; i++ {
		categoryID := categoryIDs[rand.Intn(len(categoryIDs))]
		product, err := svc.Products.Create(ctx, fakers.ProductFaker(&categoryID))
		if err != nil {
			return fmt.Errorf("fake product %d: %w", i+1, err)
		}
		for j := rand.Intn(5) + 1; j > 0; j-- {
			if _, err := svc.Sales.Create(ctx, fakers.SaleFaker(product.ID, product.Price.Decimal)); err != nil {
				return fmt.Errorf("fake sale for %s: %w", product.ID, err)
			}
		}
	}
	log.Printf("DBSeed: %d fake products with sales created", n)
	return nil
}
