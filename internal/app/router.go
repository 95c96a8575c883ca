package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockwise/stockwise/internal/adjustments"
	"github.com/stockwise/stockwise/internal/auth"
	"github.com/stockwise/stockwise/internal/catalog/categories"
	"github.com/stockwise/stockwise/internal/catalog/products"
	"github.com/stockwise/stockwise/internal/catalog/warehouses"
	"github.com/stockwise/stockwise/internal/deliveries"
	"github.com/stockwise/stockwise/internal/receipts"
	"github.com/stockwise/stockwise/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthMiddleware *auth.Middleware

	AuthHandler        *auth.Handler
	ProductsHandler    *products.Handler
	CategoriesHandler  *categories.Handler
	WarehousesHandler  *warehouses.Handler
	ReceiptsHandler    *receipts.Handler
	DeliveriesHandler  *deliveries.Handler
	AdjustmentsHandler *adjustments.Handler
	UsersHandler       *users.Handler
}

// NewRouter constructs the chi.Router with all resources mounted under /api.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Auth:   params.AuthMiddleware,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/warehouses", params.WarehousesHandler.MountRoutes)
		r.Route("/receipts", params.ReceiptsHandler.MountRoutes)
		r.Route("/deliveries", params.DeliveriesHandler.MountRoutes)
		r.Route("/adjustments", params.AdjustmentsHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
	})

	return r
}
