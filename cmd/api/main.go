package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/cafepos-backend/api/controllers"
	"github.com/angelmondragon/cafepos-backend/api/routes"
	"github.com/angelmondragon/cafepos-backend/internal/addons"
	"github.com/angelmondragon/cafepos-backend/internal/dashboard"
	"github.com/angelmondragon/cafepos-backend/internal/ingredients"
	"github.com/angelmondragon/cafepos-backend/internal/materials"
	"github.com/angelmondragon/cafepos-backend/internal/orders"
	products "github.com/angelmondragon/cafepos-backend/internal/products"
	"github.com/angelmondragon/cafepos-backend/internal/receipts"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/internal/uploads"
	"github.com/angelmondragon/cafepos-backend/pkg/config"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/instance"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/metrics"
	"github.com/angelmondragon/cafepos-backend/pkg/migrate"
	"github.com/angelmondragon/cafepos-backend/pkg/redis"
	"github.com/angelmondragon/cafepos-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	requireResource(ctx, logg, "timezone", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{"db": dbClient}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		pingers["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, order idempotency replay disabled")
	}

	store, err := local.NewClient(ctx, cfg.Uploads, logg)
	requireResource(ctx, logg, "uploads storage", err)
	pingers["storage"] = store

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(registry)

	conn := dbClient.DB()
	stockRepo := stock.NewRepository(conn)
	ingredientRepo := ingredients.NewRepository(conn)
	materialRepo := materials.NewRepository(conn)
	addonRepo := addons.NewRepository(conn)
	receiptRepo := receipts.NewRepository(conn)

	ingredientService, err := ingredients.NewService(ingredientRepo, stockRepo, dbClient)
	requireResource(ctx, logg, "ingredient service", err)

	materialService, err := materials.NewService(materialRepo, stockRepo, dbClient)
	requireResource(ctx, logg, "material service", err)

	addonService, err := addons.NewService(addonRepo, stockRepo, dbClient)
	requireResource(ctx, logg, "addon service", err)

	productService, err := products.NewService(products.NewRepository(conn), dbClient, ingredientRepo, materialRepo)
	requireResource(ctx, logg, "product service", err)

	receiptService, err := receipts.NewService(receiptRepo)
	requireResource(ctx, logg, "receipt service", err)

	orderService, err := orders.NewService(orders.Deps{
		Repo:     orders.NewRepository(conn),
		Tx:       dbClient,
		Addons:   addonRepo,
		Deductor: stock.NewDeductor(stockRepo, logg, posMetrics),
		Receipts: receipts.NewWriter(receiptRepo),
		Logger:   logg,
		Metrics:  posMetrics,
		Location: loc,
	})
	requireResource(ctx, logg, "order service", err)

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(conn), stockRepo, loc, nil)
	requireResource(ctx, logg, "dashboard service", err)

	uploadService, err := uploads.NewService(store, cfg.Uploads.MaxBytes())
	requireResource(ctx, logg, "upload service", err)

	infra := routes.Infra{Pingers: pingers, Registry: registry}
	if redisClient != nil {
		infra.Idempotency = redisClient
	}

	handler := routes.NewRouter(cfg, logg, infra, routes.Services{
		Products:    productService,
		Ingredients: ingredientService,
		Materials:   materialService,
		Addons:      addonService,
		Orders:      orderService,
		Receipts:    receiptService,
		Dashboard:   dashboardService,
		Uploads:     uploadService,
		Stock:       stockRepo,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"timezone": loc.String(),
		"db":       dbClient.Dialect(),
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	var errs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	errs = multierr.Append(errs, dbClient.Close())

	if errs != nil {
		logg.Error(serverCtx, "shutdown finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
