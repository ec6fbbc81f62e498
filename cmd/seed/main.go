// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/infrastructure/database"
	"github.com/your-org/storefront/internal/infrastructure/database/seed"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "delete carts, products and categories before seeding")
	resetOnly := flag.Bool("reset-only", false, "delete everything and exit")
	source := flag.Int64("source", seed.DemoSource, "random source for the generated catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Fatal("Nothing to seed: STORE_DRIVER=memory keeps no data between runs")
	}

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backend, err := database.Open(ctx, cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to open store")
	}
	defer backend.Close()

	seeder := seed.NewSeeder(backend.Store, logg)

	if *reset || *resetOnly {
		if err := seeder.Reset(ctx); err != nil {
			logg.WithError(err).Fatal("Reset failed")
		}
		if *resetOnly {
			return
		}
	}

	fixture := seed.Generate(rand.New(rand.NewSource(*source)), time.Now())
	if err := seeder.Seed(ctx, fixture); err != nil {
		logg.WithError(err).Fatal("Seed failed")
	}
}
