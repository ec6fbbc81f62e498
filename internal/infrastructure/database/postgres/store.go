// internal/infrastructure/database/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedBatchSize = 100

var columns = map[catalog.Field]string{
	catalog.FieldBrand:      "products.brand",
	catalog.FieldColor:      "products.color",
	catalog.FieldSize:       "products.size",
	catalog.FieldCategoryID: "products.category_id",
}

// Store implements the catalog, product and cart stores on gorm
type Store struct {
	db *gorm.DB
}

var (
	_ catalog.Store = (*Store)(nil)
	_ product.Store = (*Store)(nil)
	_ cart.Store    = (*Store)(nil)
)

// NewStore creates a gorm-backed store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// wrap translates gorm errors to store errors
func wrap(op, key string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = store.ErrNotFound
	case unreachable(err):
		err = store.Unavailable(err)
	}
	return store.Wrap(op, key, err)
}

// unreachable reports connection and timeout failures
func unreachable(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err) ||
		errors.As(err, &connectErr) ||
		errors.As(err, &netErr)
}

// matching scopes a products query to a predicate. The category clause
// resolves slugs with a subquery.
func matching(where catalog.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(where.CategorySlugs) > 0 {
			categoryIDs := db.Session(&gorm.Session{NewDB: true}).
				Table("categories").
				Select("id").
				Where("slug IN ?", where.CategorySlugs)
			db = db.Where("products.category_id IN (?)", categoryIDs)
		}
		if len(where.Brands) > 0 {
			db = db.Where("products.brand IN ?", where.Brands)
		}
		if len(where.Colors) > 0 {
			db = db.Where("products.color IN ?", where.Colors)
		}
		if len(where.Sizes) > 0 {
			db = db.Where("products.size IN ?", where.Sizes)
		}
		if where.MinPrice != nil {
			db = db.Where("products.price >= ?", *where.MinPrice)
		}
		if where.MaxPrice != nil {
			db = db.Where("products.price <= ?", *where.MaxPrice)
		}
		return db
	}
}

func findProducts(db *gorm.DB, q catalog.ProductQuery, dest *[]product.Product) *gorm.DB {
	tx := db.Model(&product.Product{}).
		Preload("Category").
		Scopes(matching(q.Where)).
		Order("products.created_at DESC, products.id DESC").
		Offset(q.Offset)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx.Find(dest)
}

func projectField(db *gorm.DB, where catalog.Predicate, column string, dest *[]sql.NullString) *gorm.DB {
	return db.Model(&product.Product{}).
		Scopes(matching(where)).
		Pluck(column, dest)
}

func upsertCartItem(db *gorm.DB, item *cart.CartItem) *gorm.DB {
	return db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
				"updated_at": item.UpdatedAt,
			}),
		},
		clause.Returning{},
	).Create(item)
}

// Catalog reads

func (s *Store) CountProducts(ctx context.Context, where catalog.Predicate) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&product.Product{}).
		Scopes(matching(where)).
		Count(&total).Error
	if err != nil {
		return 0, wrap("products.count", "", err)
	}
	return total, nil
}

func (s *Store) FindProducts(ctx context.Context, q catalog.ProductQuery) ([]product.Product, error) {
	var products []product.Product
	if err := findProducts(s.db.WithContext(ctx), q, &products).Error; err != nil {
		return nil, wrap("products.find", "", err)
	}
	return products, nil
}

func (s *Store) ProjectField(ctx context.Context, where catalog.Predicate, field catalog.Field) ([]string, error) {
	column, ok := columns[field]
	if !ok {
		return nil, store.Wrap("products.project", string(field), errors.New("unknown field"))
	}

	var rows []sql.NullString
	if err := projectField(s.db.WithContext(ctx), where, column, &rows).Error; err != nil {
		return nil, wrap("products.project", string(field), err)
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		if row.Valid {
			values[i] = row.String
		}
	}
	return values, nil
}

func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []string) ([]product.Category, error) {
	categories := []product.Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC, slug ASC").
		Find(&categories).Error
	if err != nil {
		return nil, wrap("categories.find_by_ids", "", err)
	}
	return categories, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]product.Category, error) {
	var categories []product.Category
	if err := s.db.WithContext(ctx).Order("name ASC, slug ASC").Find(&categories).Error; err != nil {
		return nil, wrap("categories.list", "", err)
	}
	return categories, nil
}

// Product reads

func (s *Store) FindProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	var p product.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, wrap("products.find_by_slug", slug, err)
	}
	return &p, nil
}

func (s *Store) FindProductByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrap("products.find_by_id", id, err)
	}
	return &p, nil
}

// Carts

func (s *Store) FindCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC, cart_items.id ASC")
		}).
		Preload("Items.Product.Category").
		Where("id = ?", cartID).
		First(&c).Error
	if err != nil {
		return nil, wrap("carts.find", cartID, err)
	}
	if c.Items == nil {
		c.Items = []cart.CartItem{}
	}
	return &c, nil
}

func (s *Store) CreateCart(ctx context.Context, c *cart.Cart) error {
	if err := s.db.WithContext(ctx).Omit("Items").Create(c).Error; err != nil {
		return wrap("carts.create", c.ID, err)
	}
	return nil
}

// UpsertCartItem relies on the unique (cart_id, product_id) index: the
// insert either creates the line or increments it in the same statement
func (s *Store) UpsertCartItem(ctx context.Context, cartID, productID string, quantity int) (*cart.CartItem, error) {
	now := time.Now().UTC()
	item := &cart.CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := upsertCartItem(s.db.WithContext(ctx), item).Error; err != nil {
		return nil, wrap("cart_items.upsert", cartID, err)
	}
	return item, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*cart.CartItem, error) {
	var item cart.CartItem
	result := s.db.WithContext(ctx).
		Model(&item).
		Clauses(clause.Returning{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, wrap("cart_items.update", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.Wrap("cart_items.update", itemID, store.ErrNotFound)
	}
	return &item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&cart.CartItem{})
	if result.Error != nil {
		return wrap("cart_items.delete", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return store.Wrap("cart_items.delete", itemID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteCartItems(ctx context.Context, cartID string) error {
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&cart.CartItem{}).Error; err != nil {
		return wrap("cart_items.delete_many", cartID, err)
	}
	return nil
}

// Seeding

// SeedCatalog upserts categories and products by slug
func (s *Store) SeedCatalog(ctx context.Context, categories []product.Category, products []product.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(categories) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
			}).CreateInBatches(categories, seedBatchSize).Error
			if err != nil {
				return wrap("categories.seed", "", err)
			}
		}
		if len(products) > 0 {
			err := tx.Omit("Category").Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				UpdateAll: true,
			}).CreateInBatches(products, seedBatchSize).Error
			if err != nil {
				return wrap("products.seed", "", err)
			}
		}
		return nil
	})
}

// Reset deletes every row, children first
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&cart.CartItem{}, &cart.Cart{}, &product.Product{}, &product.Category{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return wrap("database.reset", "", err)
			}
		}
		return nil
	})
}
