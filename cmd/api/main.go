// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/database"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/database/seed"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	logg.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"driver":      cfg.Store.Driver,
	}).Infof("Starting %s", cfg.App.Name)

	ctx := context.Background()

	// Connect to the store
	backend, err := database.Open(ctx, cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to open store")
	}
	defer backend.Close()

	if cfg.Store.SeedDemo && cfg.Store.Driver != config.StoreDriverMemory {
		if err := seed.NewSeeder(backend.Store, logg).Seed(ctx, seed.Demo(time.Now())); err != nil {
			logg.WithError(err).Warn("Demo data seeding failed")
		}
	}

	checks := map[string]http.HealthCheck{
		"store": backend.Ping,
	}

	// Connect to Redis
	var (
		cache       catalog.ResponseCache
		rateCounter middleware.Counter
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewConnection(ctx, cfg, logg)
		if err != nil {
			logg.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()

		if cfg.Catalog.CacheTTL > 0 {
			cache = redis.NewCatalogCache(redisClient, cfg.Catalog.CacheTTL, logg)
		}
		rateCounter = redisClient
		checks["redis"] = redisClient.Health
	}

	services := http.Services{
		Catalog: catalog.NewService(backend.Store, cache, catalog.Options{
			FallbackOnError: cfg.Catalog.FallbackOnError,
			QueryTimeout:    cfg.Catalog.QueryTimeout,
		}, logg),
		Product: product.NewService(backend.Store, logg),
		Cart:    cart.NewService(backend.Store, backend.Store, logg),
	}

	// Create and start HTTP server
	server := http.NewServer(cfg, logg, services, rateCounter, checks)

	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logg.Info("Server shutdown completed")
}
