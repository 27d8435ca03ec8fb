package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luanmoretti/kmerch-backend/api/routes"
	"github.com/luanmoretti/kmerch-backend/internal/cart"
	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/luanmoretti/kmerch-backend/internal/checkout"
	"github.com/luanmoretti/kmerch-backend/internal/upstream"
	"github.com/luanmoretti/kmerch-backend/pkg/config"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
	"github.com/luanmoretti/kmerch-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	upstreamClient, err := upstream.NewClient(
		cfg.Upstream.CatalogBaseURL,
		upstream.WithOrdersURL(cfg.Upstream.OrdersURL),
		upstream.WithTimeout(cfg.Upstream.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	normalizer := catalog.NewNormalizer(cfg.Pricing, logg, catalogMetrics)
	catalogService, err := catalog.NewService(upstreamClient, normalizer, cfg.Catalog, logg, catalogMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	snapshotRepo, err := cart.NewSnapshotRepo(redisClient, cfg.Cart.SnapshotTTL, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart snapshot repo", err)
		os.Exit(1)
	}
	cartManager, err := cart.NewManager(snapshotRepo, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(upstreamClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, catalogService, cartManager, checkoutService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
