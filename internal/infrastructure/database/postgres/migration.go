// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every migrated model in dependency order
func Models() []interface{} {
	return []interface{}{
		&product.Category{},
		&product.Product{},
		&cart.Cart{},
		&cart.CartItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// Indexes are the composite indexes the catalog queries rely on
var Indexes = []string{
	// Pager ordering
	"CREATE INDEX IF NOT EXISTS idx_products_created_at_id ON products(created_at DESC, id DESC)",
	// Facet projections under a price window
	"CREATE INDEX IF NOT EXISTS idx_products_category_price ON products(category_id, price)",
	"CREATE INDEX IF NOT EXISTS idx_products_brand_price ON products(brand, price)",
	"CREATE INDEX IF NOT EXISTS idx_products_color_price ON products(color, price)",
	"CREATE INDEX IF NOT EXISTS idx_products_size_price ON products(size, price)",
	// Category lookups
	"CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)",
	// Cart items in insertion order
	"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_created ON cart_items(cart_id, created_at)",
}

// CreateIndexes creates additional indexes for better performance. A
// failing index is logged and skipped.
func (m *Migration) CreateIndexes() error {
	m.logger.Info("Creating additional database indexes")

	successCount := 0
	failCount := 0
	for _, index := range Indexes {
		if err := m.db.Exec(index).Error; err != nil {
			m.logger.WithError(err).WithField("index", index).Warn("Failed to create index")
			failCount++
			continue
		}
		successCount++
	}

	m.logger.WithFields(logrus.Fields{
		"created": successCount,
		"failed":  failCount,
	}).Info("Database indexes processed")
	return nil
}
