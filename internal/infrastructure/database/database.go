// internal/infrastructure/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/infrastructure/database/mongodb"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/seed"
)

const closeTimeout = 10 * time.Second

// Store is everything the services and the seeder need from a backend
type Store interface {
	catalog.Store
	product.Store
	cart.Store
	cart.ProductFinder
	seed.Loader
}

// Backend is an opened store with its lifecycle hooks
type Backend struct {
	Store Store
	// Ping reports whether the backend answers
	Ping  func(ctx context.Context) error
	// Close releases connections
	Close func()
}

// Open connects the configured driver and prepares its schema. The memory
// driver starts with the demo catalog loaded.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg, log)
	case config.StoreDriverMemory:
		return openMemory(ctx, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Backend, error) {
	db, err := postgres.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	migration := postgres.NewMigration(db, log)
	if err := migration.RunAutoMigrations(); err != nil {
		postgres.Close(db, log)
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	return &Backend{
		Store: postgres.NewStore(db),
		Ping:  func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		Close: func() { postgres.Close(db, log) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Backend, error) {
	client, err := mongodb.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		return nil, err
	}

	s := mongodb.NewStore(client.Database(cfg.Mongo.Database))
	if err := s.EnsureIndexes(ctx, log); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	return &Backend{
		Store: s,
		Ping:  s.Ping,
		Close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			mongodb.Disconnect(ctx, client, log)
		},
	}, nil
}

func openMemory(ctx context.Context, log *logrus.Logger) (*Backend, error) {
	s := memory.NewStore()
	if err := seed.NewSeeder(s, log).Seed(ctx, seed.Demo(time.Now())); err != nil {
		return nil, err
	}
	log.Warn("Using in-memory store; data is lost on restart")

	return &Backend{
		Store: s,
		Ping:  func(context.Context) error { return nil },
		Close: func() {},
	}, nil
}
