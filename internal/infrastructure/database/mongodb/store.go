// internal/infrastructure/database/mongodb/store.go
package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionCarts      = "carts"
	CollectionCartItems  = "cart_items"
)

// newestFirst is the pager ordering
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Store implements the catalog, product and cart stores on MongoDB
type Store struct {
	db *mongo.Database
}

var (
	_ catalog.Store = (*Store)(nil)
	_ product.Store = (*Store)(nil)
	_ cart.Store    = (*Store)(nil)
)

// NewStore creates a MongoDB-backed store
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) categories() *mongo.Collection { return s.db.Collection(CollectionCategories) }
func (s *Store) products() *mongo.Collection   { return s.db.Collection(CollectionProducts) }
func (s *Store) carts() *mongo.Collection      { return s.db.Collection(CollectionCarts) }
func (s *Store) cartItems() *mongo.Collection  { return s.db.Collection(CollectionCartItems) }

// wrap translates driver errors to store errors
func wrap(op, key string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		err = store.ErrNotFound
	case unreachable(err):
		err = store.Unavailable(err)
	}
	return store.Wrap(op, key, err)
}

// unreachable reports connection and timeout failures
func unreachable(err error) bool {
	return err != nil && (mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected))
}

// predicateFilter renders a predicate whose category slugs have already
// been resolved to IDs
func predicateFilter(where catalog.Predicate, categoryIDs []string) bson.M {
	filter := bson.M{}
	if len(where.CategorySlugs) > 0 {
		if categoryIDs == nil {
			categoryIDs = []string{}
		}
		filter["category_id"] = bson.M{"$in": categoryIDs}
	}
	if len(where.Brands) > 0 {
		filter["brand"] = bson.M{"$in": where.Brands}
	}
	if len(where.Colors) > 0 {
		filter["color"] = bson.M{"$in": where.Colors}
	}
	if len(where.Sizes) > 0 {
		filter["size"] = bson.M{"$in": where.Sizes}
	}
	if where.MinPrice != nil || where.MaxPrice != nil {
		price := bson.M{}
		if where.MinPrice != nil {
			price["$gte"] = *where.MinPrice
		}
		if where.MaxPrice != nil {
			price["$lte"] = *where.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

// filter resolves category slugs and renders the predicate
func (s *Store) filter(ctx context.Context, where catalog.Predicate) (bson.M, error) {
	if len(where.CategorySlugs) == 0 {
		return predicateFilter(where, nil), nil
	}

	cursor, err := s.categories().Find(ctx,
		bson.M{"slug": bson.M{"$in": where.CategorySlugs}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return predicateFilter(where, ids), nil
}

// Catalog reads

func (s *Store) CountProducts(ctx context.Context, where catalog.Predicate) (int64, error) {
	filter, err := s.filter(ctx, where)
	if err != nil {
		return 0, wrap("products.count", "", err)
	}
	total, err := s.products().CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrap("products.count", "", err)
	}
	return total, nil
}

func (s *Store) FindProducts(ctx context.Context, q catalog.ProductQuery) ([]product.Product, error) {
	filter, err := s.filter(ctx, q.Where)
	if err != nil {
		return nil, wrap("products.find", "", err)
	}

	opts := options.Find().SetSort(newestFirst).SetSkip(int64(q.Offset))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("products.find", "", err)
	}
	products := []product.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrap("products.find", "", err)
	}

	if err := s.attachCategories(ctx, products); err != nil {
		return nil, wrap("products.find", "", err)
	}
	return products, nil
}

func (s *Store) ProjectField(ctx context.Context, where catalog.Predicate, field catalog.Field) ([]string, error) {
	filter, err := s.filter(ctx, where)
	if err != nil {
		return nil, wrap("products.project", string(field), err)
	}

	name := string(field)
	cursor, err := s.products().Find(ctx, filter, options.Find().SetProjection(bson.M{name: 1, "_id": 0}))
	if err != nil {
		return nil, wrap("products.project", name, err)
	}

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrap("products.project", name, err)
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = stringValue(row, name)
	}
	return values, nil
}

func stringValue(doc bson.M, key string) string {
	v, _ := doc[key].(string)
	return v
}

func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []string) ([]product.Category, error) {
	categories := []product.Category{}
	if len(ids) == 0 {
		return categories, nil
	}

	cursor, err := s.categories().Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "slug", Value: 1}}))
	if err != nil {
		return nil, wrap("categories.find_by_ids", "", err)
	}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, wrap("categories.find_by_ids", "", err)
	}
	return categories, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]product.Category, error) {
	cursor, err := s.categories().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "slug", Value: 1}}))
	if err != nil {
		return nil, wrap("categories.list", "", err)
	}
	categories := []product.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, wrap("categories.list", "", err)
	}
	return categories, nil
}

func (s *Store) attachCategories(ctx context.Context, products []product.Product) error {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range products {
		if p.CategoryID != nil && !seen[*p.CategoryID] {
			seen[*p.CategoryID] = true
			ids = append(ids, *p.CategoryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	categories, err := s.FindCategoriesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]product.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for i := range products {
		if products[i].CategoryID == nil {
			continue
		}
		if c, ok := byID[*products[i].CategoryID]; ok {
			products[i].Category = &c
		}
	}
	return nil
}

// Product reads

func (s *Store) FindProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return s.findProduct(ctx, "products.find_by_slug", slug, bson.M{"slug": slug})
}

func (s *Store) FindProductByID(ctx context.Context, id string) (*product.Product, error) {
	return s.findProduct(ctx, "products.find_by_id", id, bson.M{"_id": id})
}

func (s *Store) findProduct(ctx context.Context, op, key string, filter bson.M) (*product.Product, error) {
	var p product.Product
	if err := s.products().FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, wrap(op, key, err)
	}
	products := []product.Product{p}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, wrap(op, key, err)
	}
	return &products[0], nil
}

// Carts

func (s *Store) FindCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	var c cart.Cart
	if err := s.carts().FindOne(ctx, bson.M{"_id": cartID}).Decode(&c); err != nil {
		return nil, wrap("carts.find", cartID, err)
	}

	cursor, err := s.cartItems().Find(ctx, bson.M{"cart_id": cartID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrap("carts.find", cartID, err)
	}
	c.Items = []cart.CartItem{}
	if err := cursor.All(ctx, &c.Items); err != nil {
		return nil, wrap("carts.find", cartID, err)
	}

	if err := s.attachProducts(ctx, c.Items); err != nil {
		return nil, wrap("carts.find", cartID, err)
	}
	return &c, nil
}

func (s *Store) attachProducts(ctx context.Context, items []cart.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	cursor, err := s.products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	var products []product.Product
	if err := cursor.All(ctx, &products); err != nil {
		return err
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return err
	}

	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return nil
}

func (s *Store) CreateCart(ctx context.Context, c *cart.Cart) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err := s.carts().InsertOne(ctx, c); err != nil {
		return wrap("carts.create", c.ID, err)
	}
	return nil
}

// UpsertCartItem increments the (cart, product) line or inserts it in one
// findAndModify. Two concurrent inserts of the same line can race on the
// unique index; the loser retries and lands on the increment branch.
func (s *Store) UpsertCartItem(ctx context.Context, cartID, productID string, quantity int) (*cart.CartItem, error) {
	var item cart.CartItem
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now().UTC()
		err = s.cartItems().FindOneAndUpdate(ctx,
			bson.M{"cart_id": cartID, "product_id": productID},
			upsertItemUpdate(quantity, now),
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&item)
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, wrap("cart_items.upsert", cartID, err)
	}

	if _, err := s.carts().UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": bson.M{"updated_at": item.UpdatedAt}}); err != nil {
		return nil, wrap("carts.touch", cartID, err)
	}
	return &item, nil
}

func upsertItemUpdate(quantity int, now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"created_at": now,
		},
	}
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*cart.CartItem, error) {
	var item cart.CartItem
	err := s.cartItems().FindOneAndUpdate(ctx,
		bson.M{"_id": itemID, "cart_id": cartID},
		bson.M{"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err != nil {
		return nil, wrap("cart_items.update", itemID, err)
	}
	return &item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID string) error {
	result, err := s.cartItems().DeleteOne(ctx, bson.M{"_id": itemID, "cart_id": cartID})
	if err != nil {
		return wrap("cart_items.delete", itemID, err)
	}
	if result.DeletedCount == 0 {
		return store.Wrap("cart_items.delete", itemID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteCartItems(ctx context.Context, cartID string) error {
	if _, err := s.cartItems().DeleteMany(ctx, bson.M{"cart_id": cartID}); err != nil {
		return wrap("cart_items.delete_many", cartID, err)
	}
	return nil
}

// Seeding

// SeedCatalog replaces categories and products by ID
func (s *Store) SeedCatalog(ctx context.Context, categories []product.Category, products []product.Product) error {
	if len(categories) > 0 {
		models := make([]mongo.WriteModel, 0, len(categories))
		for i := range categories {
			c := categories[i]
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": c.ID}).
				SetReplacement(c).
				SetUpsert(true))
		}
		if _, err := s.categories().BulkWrite(ctx, models); err != nil {
			return wrap("categories.seed", "", err)
		}
	}

	if len(products) > 0 {
		models := make([]mongo.WriteModel, 0, len(products))
		for i := range products {
			p := products[i]
			p.Category = nil
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": p.ID}).
				SetReplacement(p).
				SetUpsert(true))
		}
		if _, err := s.products().BulkWrite(ctx, models); err != nil {
			return wrap("products.seed", "", err)
		}
	}
	return nil
}

// Reset deletes every document, children first
func (s *Store) Reset(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{s.cartItems(), s.carts(), s.products(), s.categories()} {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return wrap("database.reset", coll.Name(), err)
		}
	}
	return nil
}

// Ping reports whether the server answers
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
