package routes

import (
	"io"
	"net/http"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/handlers"
	"github.com/Rakhulsr/go-smartmart/app/helpers"
	"github.com/Rakhulsr/go-smartmart/app/middlewares"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/services"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/gorilla/csrf"
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type Config struct {
	DB       *gorm.DB
	Services *services.Services
	Render   *render.Render
	Tokens   *sessions.TokenManager

	// AuthEnforce requires a session for reads and the admin role for writes.
	AuthEnforce bool
	// CSRFKey enables CSRF protection on unsafe methods when set.
	CSRFKey       []byte
	SecureCookies bool
	CORSOrigins   []string
	// AccessLog receives combined-format request logs when not nil.
	AccessLog io.Writer
}

func NewRouter(cfg Config) http.Handler {
	rd := cfg.Render
	svc := cfg.Services

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := helpers.NewErrorBody(r, apperrors.NotFound("no route for %s %s", r.Method, r.URL.Path))
		rd.JSON(w, status, body)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd.JSON(w, http.StatusMethodNotAllowed, helpers.ErrorBody{Error: "method not allowed"})
	})
	router.Use(middlewares.SessionMiddleware(cfg.Tokens))

	open := func(h http.HandlerFunc) http.Handler { return h }
	read, write := open, open
	if cfg.AuthEnforce {
		requireAuth := middlewares.RequireAuth(rd)
		requireAdmin := middlewares.RequireRole(rd, models.RoleAdmin)
		read = func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
		write = func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }
	}

	health := handlers.NewHealthHandler(rd, cfg.DB)
	router.HandleFunc("/healthz", health.Healthz).Methods("GET")
	if cfg.CSRFKey != nil {
		router.HandleFunc("/csrf-token", health.CSRFToken).Methods("GET")
	}

	categoryHandler := handlers.NewCategoryHandler(rd, svc.Categories, svc.Importer)
	router.Handle("/categories", read(categoryHandler.List)).Methods("GET")
	router.Handle("/categories", write(categoryHandler.Create)).Methods("POST")
	router.Handle("/categories/upload-csv", write(categoryHandler.UploadCSV)).Methods("POST")
	router.Handle("/categories/{id}", read(categoryHandler.Get)).Methods("GET")
	router.Handle("/categories/{id}", write(categoryHandler.Update)).Methods("PUT", "PATCH")
	router.Handle("/categories/{id}", write(categoryHandler.Delete)).Methods("DELETE")

	productHandler := handlers.NewProductHandler(rd, svc.Products, svc.Pricing, svc.Importer)
	router.Handle("/products", read(productHandler.List)).Methods("GET")
	router.Handle("/products", write(productHandler.Create)).Methods("POST")
	router.Handle("/products/upload-csv", write(productHandler.UploadCSV)).Methods("POST")
	router.Handle("/products/categories/{category_id}/discount", write(productHandler.ApplyCategoryDiscount)).Methods("PUT")
	router.Handle("/products/{id}", read(productHandler.Get)).Methods("GET")
	router.Handle("/products/{id}", write(productHandler.Update)).Methods("PUT", "PATCH")
	router.Handle("/products/{id}", write(productHandler.Delete)).Methods("DELETE")
	router.Handle("/price-history/{product_id}", read(productHandler.PriceHistory)).Methods("GET")

	saleHandler := handlers.NewSaleHandler(rd, svc.Sales, svc.Importer)
	router.Handle("/sales", read(saleHandler.List)).Methods("GET")
	router.Handle("/sales", write(saleHandler.Create)).Methods("POST")
	router.Handle("/sales/upload-csv", write(saleHandler.UploadCSV)).Methods("POST")
	router.Handle("/sales/profit/total", read(saleHandler.TotalProfit)).Methods("GET")
	router.Handle("/sales/{id}", read(saleHandler.Get)).Methods("GET")
	router.Handle("/sales/{id}", write(saleHandler.Update)).Methods("PUT", "PATCH")
	router.Handle("/sales/{id}", write(saleHandler.Delete)).Methods("DELETE")

	exportHandler := handlers.NewExportHandler(rd, svc.Exporter)
	router.Handle("/export/{entity}", read(exportHandler.Export)).Methods("GET")

	authHandler := handlers.NewAuthHandler(rd, svc.Auth, cfg.SecureCookies)
	router.HandleFunc("/users/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/users/logout", authHandler.Logout).Methods("POST")
	router.Handle("/users/me", middlewares.RequireAuth(rd)(http.HandlerFunc(authHandler.Me))).Methods("GET")

	userHandler := handlers.NewUserHandler(rd, svc.Users, svc.Importer)
	router.HandleFunc("/users/roles", userHandler.Roles).Methods("GET")
	router.Handle("/users", read(userHandler.List)).Methods("GET")
	router.Handle("/users", write(userHandler.Create)).Methods("POST")
	router.Handle("/users/upload-csv", write(userHandler.UploadCSV)).Methods("POST")
	router.Handle("/users/{id}", read(userHandler.Get)).Methods("GET")
	router.Handle("/users/{id}", write(userHandler.Update)).Methods("PUT", "PATCH")
	router.Handle("/users/{id}", write(userHandler.Delete)).Methods("DELETE")

	var handler http.Handler = router
	if cfg.CSRFKey != nil {
		handler = csrf.Protect(cfg.CSRFKey,
			csrf.Secure(cfg.SecureCookies),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				msg := "invalid CSRF token"
				if reason := csrf.FailureReason(r); reason != nil {
					msg += ": " + reason.Error()
				}
				rd.JSON(w, http.StatusForbidden, helpers.ErrorBody{Error: msg})
			})),
		)(handler)
	}

	handler = ghandlers.CORS(
		ghandlers.AllowedOrigins(cfg.CORSOrigins),
		ghandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-CSRF-Token"}),
		ghandlers.ExposedHeaders([]string{"Content-Disposition", "X-CSRF-Token"}),
		ghandlers.AllowCredentials(),
	)(handler)

	handler = ghandlers.RecoveryHandler(ghandlers.PrintRecoveryStack(true))(handler)
	if cfg.AccessLog != nil {
		handler = ghandlers.CombinedLoggingHandler(cfg.AccessLog, handler)
	}
	return handler
}
