package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-smartmart/app/configs"
	"github.com/Rakhulsr/go-smartmart/app/db/seeders"
	"github.com/Rakhulsr/go-smartmart/app/models/migrations"
	"github.com/Rakhulsr/go-smartmart/app/routes"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/format"
	"github.com/Rakhulsr/go-smartmart/app/utils/renderer"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func RunCli(env configs.ENV) {
	cmd := &cli.Command{
		Name:  "smartmart",
		Usage: "SmartMart admin API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API (default)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					if _, err := openMigrated(env); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Load categories.csv, products.csv and sales.csv from SEED_DATA_DIR",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "seed data directory", Value: env.SeedDataDir},
					&cli.StringFlag{Name: "admin-email", Usage: "create an admin user with this email"},
					&cli.StringFlag{Name: "admin-password", Usage: "password for --admin-email"},
					&cli.IntFlag{Name: "fake", Usage: "also generate N fake products with sales"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openMigrated(env)
					if err != nil {
						return err
					}
					svc, err := buildServices(env, db)
					if err != nil {
						return err
					}
					if c.String("admin-email") != "" && c.String("admin-password") == "" {
						return errors.New("--admin-password is required with --admin-email")
					}
					err = seeders.DBSeed(ctx, svc, seeders.Options{
						DataDir:       c.String("dir"),
						AdminEmail:    c.String("admin-email"),
						AdminPassword: c.String("admin-password"),
						Fake:          int(c.Int("fake")),
					})
					if err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "remove-orphan-sales",
				Usage: "Delete sales whose product no longer exists",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openMigrated(env)
					if err != nil {
						return err
					}
					svc, err := buildServices(env, db)
					if err != nil {
						return err
					}
					removed, err := svc.Sales.RemoveOrphanSales(ctx)
					if err != nil {
						return err
					}
					money := format.NewMoney(env.CurrencySymbol)
					for _, sale := range removed {
						fmt.Fprintf(os.Stdout, "removed sale %s (product %s, qty %d, total %s, %s)\n",
							sale.ID, sale.ProductID, sale.Quantity, money.Format(sale.TotalPrice), sale.Date.Format(time.RFC3339))
					}
					log.Printf("✅ %d orphan sales removed", len(removed))
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(os.Stdout); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func openMigrated(env configs.ENV) (*gorm.DB, error) {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return nil, err
	}
	if err := migrations.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}

func buildServices(env configs.ENV, db *gorm.DB) (*services.Services, error) {
	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return nil, err
	}
	tokens := sessions.NewTokenManager(keys.HashKey, keys.BlockKey)
	return services.New(db, tokens, format.NewMoney(env.CurrencySymbol)), nil
}

func serve(ctx context.Context, env configs.ENV) error {
	db, err := openMigrated(env)
	if err != nil {
		return err
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}
	tokens := sessions.NewTokenManager(keys.HashKey, keys.BlockKey)
	svc := services.New(db, tokens, format.NewMoney(env.CurrencySymbol))

	router := routes.NewRouter(routes.Config{
		DB:            db,
		Services:      svc,
		Render:        renderer.New(!env.IsProduction()),
		Tokens:        tokens,
		AuthEnforce:   env.AuthEnforce,
		CSRFKey:       keys.CSRFKey,
		SecureCookies: env.IsProduction(),
		CORSOrigins:   env.CORSOrigins,
		AccessLog:     os.Stdout,
	})

	server := &http.Server{
		Addr:         ":" + env.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
