package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dryRunDB builds SQL without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestFindProductsSQL(t *testing.T) {
	db := dryRunDB(t)
	q := catalog.ProductQuery{
		Where: catalog.Build(catalog.ProductFilters{
			CategorySlugs: []string{"category-1"},
			Brands:        []string{"Acme", "Globex"},
			MinPrice:      ptr(int64(500)),
			MaxPrice:      ptr(int64(20000)),
		}),
		Offset: 48,
		Limit:  24,
	}

	sqlText := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var products []product.Product
		return findProducts(tx, q, &products)
	})

	assert.Contains(t, sqlText, "products.category_id IN (SELECT")
	assert.Contains(t, sqlText, "slug IN ('category-1')")
	assert.Contains(t, sqlText, "products.brand IN ('Acme','Globex')")
	assert.Contains(t, sqlText, "products.price >= 500")
	assert.Contains(t, sqlText, "products.price <= 20000")
	assert.Contains(t, sqlText, "ORDER BY products.created_at DESC, products.id DESC")
	assert.Contains(t, sqlText, "LIMIT 24")
	assert.Contains(t, sqlText, "OFFSET 48")
	assert.NotContains(t, sqlText, "products.color")
}

func TestProjectFieldSQLOmitsDimension(t *testing.T) {
	db := dryRunDB(t)
	filters := catalog.ProductFilters{Brands: []string{"Acme"}, Colors: []string{"red"}}

	sqlText := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []sql.NullString
		return projectField(tx, catalog.Build(filters, catalog.DimensionBrand), columns[catalog.FieldBrand], &rows)
	})

	assert.Contains(t, sqlText, `SELECT "products"."brand" FROM "products"`)
	assert.Contains(t, sqlText, "products.color IN ('red')")
	assert.NotContains(t, sqlText, "products.brand IN")
}

func TestEmptyPredicateHasNoWhere(t *testing.T) {
	db := dryRunDB(t)

	sqlText := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var products []product.Product
		return findProducts(tx, catalog.ProductQuery{Limit: 6}, &products)
	})

	assert.NotContains(t, sqlText, "WHERE")
}

func TestUpsertCartItemSQL(t *testing.T) {
	db := dryRunDB(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	item := &cart.CartItem{ID: "item-1", CartID: "cart-1", ProductID: "x", Quantity: 3, CreatedAt: now, UpdatedAt: now}

	sqlText := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return upsertCartItem(tx, item)
	})

	assert.Contains(t, sqlText, `INSERT INTO "cart_items"`)
	assert.Contains(t, sqlText, "ON CONFLICT")
	assert.Contains(t, sqlText, `"cart_id"`)
	assert.Contains(t, sqlText, `"product_id"`)
	assert.Contains(t, sqlText, "DO UPDATE SET")
	assert.Contains(t, sqlText, "cart_items.quantity + 3")
	assert.Contains(t, sqlText, "RETURNING")
}

func TestModelsAndIndexes(t *testing.T) {
	assert.Len(t, Models(), 4)
	for _, index := range Indexes {
		assert.Contains(t, index, "IF NOT EXISTS")
	}
}

func ptr[T any](v T) *T { return &v }

func TestWrapClassifiesErrors(t *testing.T) {
	assert.NoError(t, wrap("carts.find", "cart-1", nil))

	err := wrap("carts.find", "cart-1", gorm.ErrRecordNotFound)
	assert.True(t, store.IsNotFound(err))
	assert.False(t, store.IsUnavailable(err))

	unavailable := []error{
		driver.ErrBadConn,
		sql.ErrConnDone,
		context.DeadlineExceeded,
		fmt.Errorf("query: %w", context.DeadlineExceeded),
		&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
	for _, cause := range unavailable {
		err := wrap("cart_items.upsert", "cart-1", cause)
		assert.True(t, store.IsUnavailable(err), cause.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "cart_items.upsert", store.Op(err))
	}

	assert.False(t, store.IsUnavailable(wrap("products.count", "", errors.New("syntax error at or near"))))
}
