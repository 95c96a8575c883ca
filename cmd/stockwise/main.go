package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/stockwise/stockwise/internal/adjustments"
	"github.com/stockwise/stockwise/internal/app"
	"github.com/stockwise/stockwise/internal/auth"
	"github.com/stockwise/stockwise/internal/catalog/categories"
	"github.com/stockwise/stockwise/internal/catalog/products"
	"github.com/stockwise/stockwise/internal/catalog/warehouses"
	"github.com/stockwise/stockwise/internal/deliveries"
	"github.com/stockwise/stockwise/internal/notify"
	"github.com/stockwise/stockwise/internal/platform/cache"
	"github.com/stockwise/stockwise/internal/platform/db"
	"github.com/stockwise/stockwise/internal/receipts"
	"github.com/stockwise/stockwise/internal/sequence"
	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/users"
)

type categoryPort struct {
	service *categories.Service
}

func (p categoryPort) CategoryName(ctx context.Context, id int64) (string, error) {
	category, err := p.service.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

type warehousePort struct {
	service *warehouses.Service
}

func (p warehousePort) WarehouseExists(ctx context.Context, id int64) error {
	_, err := p.service.Get(ctx, id)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	notifier := notify.NewAsynqNotifier(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("notifier close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	authz := shared.AuthzMiddleware{Logger: logger}
	numbers := sequence.NewGenerator(sequence.NewRepository(pool, map[string]sequence.DocumentSource{
		sequence.PrefixReceipt:    {Table: "receipts", Column: "receipt_number"},
		sequence.PrefixDelivery:   {Table: "deliveries", Column: "delivery_number"},
		sequence.PrefixAdjustment: {Table: "adjustments", Column: "adjustment_number"},
	}))

	categoriesService := categories.NewService(categories.NewRepository(pool))
	warehousesService := warehouses.NewService(warehouses.NewRepository(pool))
	productsService := products.NewService(
		products.NewRepository(pool),
		categoryPort{service: categoriesService},
		warehousePort{service: warehousesService},
		numbers,
	)

	receiptsService := receipts.NewService(receipts.NewRepository(pool), numbers, notifier, auditLogger)
	deliveriesService := deliveries.NewService(deliveries.NewRepository(pool), numbers, notifier, auditLogger)
	adjustmentsService := adjustments.NewService(adjustments.NewRepository(pool), numbers, notifier, auditLogger)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)

	tokens := auth.NewTokenStore(redisClient, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(logger, usersRepo, tokens)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     auth.NewMiddleware(logger, tokens),
		AuthHandler:        auth.NewHandler(logger, authService),
		ProductsHandler:    products.NewHandler(logger, productsService, authz),
		CategoriesHandler:  categories.NewHandler(logger, categoriesService, authz),
		WarehousesHandler:  warehouses.NewHandler(logger, warehousesService, authz),
		ReceiptsHandler:    receipts.NewHandler(logger, receiptsService, authz),
		DeliveriesHandler:  deliveries.NewHandler(logger, deliveriesService, authz),
		AdjustmentsHandler: adjustments.NewHandler(logger, adjustmentsService, authz),
		UsersHandler:       users.NewHandler(logger, usersService, authz),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
