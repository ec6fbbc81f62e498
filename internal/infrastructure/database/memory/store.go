// internal/infrastructure/database/memory/store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
)

// Store keeps the catalog and carts in process memory. Every method holds
// the store lock for its whole duration, which makes each call atomic.
type Store struct {
	mu         sync.RWMutex
	categories map[string]product.Category
	products   map[string]product.Product
	slugs      map[string]string
	carts      map[string]*cartRecord
	now        func() time.Time
}

type cartRecord struct {
	cart  cart.Cart
	items []cart.CartItem
}

var (
	_ catalog.Store = (*Store)(nil)
	_ product.Store = (*Store)(nil)
	_ cart.Store    = (*Store)(nil)
)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		categories: make(map[string]product.Category),
		products:   make(map[string]product.Product),
		slugs:      make(map[string]string),
		carts:      make(map[string]*cartRecord),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SeedCatalog inserts categories and products, replacing records with the
// same ID
func (s *Store) SeedCatalog(ctx context.Context, categories []product.Category, products []product.Product) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("catalog.seed", "", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range categories {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.categories[c.ID] = c
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		p.Category = nil
		s.products[p.ID] = p
		s.slugs[p.Slug] = p.ID
	}
	return nil
}

// Reset drops every record
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = make(map[string]product.Category)
	s.products = make(map[string]product.Product)
	s.slugs = make(map[string]string)
	s.carts = make(map[string]*cartRecord)
	return nil
}

// Catalog reads

func (s *Store) CountProducts(ctx context.Context, where catalog.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, store.Wrap("products.count", "", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for id := range s.products {
		p := s.products[id]
		if where.Matches(&p, s.categorySlug(&p)) {
			total++
		}
	}
	return total, nil
}

func (s *Store) FindProducts(ctx context.Context, q catalog.ProductQuery) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("products.find", "", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matching(q.Where)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if q.Offset >= len(matched) {
		return []product.Product{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}

	out := make([]product.Product, 0, end-q.Offset)
	for _, p := range matched[q.Offset:end] {
		out = append(out, s.withCategory(p))
	}
	return out, nil
}

func (s *Store) ProjectField(ctx context.Context, where catalog.Predicate, field catalog.Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("products.project", string(field), err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matching(where)
	values := make([]string, 0, len(matched))
	for i := range matched {
		values = append(values, fieldValue(&matched[i], field))
	}
	return values, nil
}

func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []string) ([]product.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("categories.find_by_ids", "", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]product.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("categories.list", "", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

// Product reads

func (s *Store) FindProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("products.find_by_slug", slug, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.slugs[slug]
	if !ok {
		return nil, store.Wrap("products.find_by_slug", slug, store.ErrNotFound)
	}
	p := s.withCategory(s.products[id])
	return &p, nil
}

func (s *Store) FindProductByID(ctx context.Context, id string) (*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("products.find_by_id", id, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.Wrap("products.find_by_id", id, store.ErrNotFound)
	}
	p = s.withCategory(p)
	return &p, nil
}

// Carts

func (s *Store) FindCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("carts.find", cartID, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.carts[cartID]
	if !ok {
		return nil, store.Wrap("carts.find", cartID, store.ErrNotFound)
	}

	c := rec.cart
	c.Items = make([]cart.CartItem, 0, len(rec.items))
	for _, item := range rec.items {
		if p, ok := s.products[item.ProductID]; ok {
			p = s.withCategory(p)
			item.Product = &p
		}
		c.Items = append(c.Items, item)
	}
	return &c, nil
}

func (s *Store) CreateCart(ctx context.Context, c *cart.Cart) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("carts.create", c.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now

	s.carts[c.ID] = &cartRecord{cart: cart.Cart{ID: c.ID, CreatedAt: now, UpdatedAt: now}}
	return nil
}

func (s *Store) UpsertCartItem(ctx context.Context, cartID, productID string, quantity int) (*cart.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("cart_items.upsert", cartID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.carts[cartID]
	if !ok {
		return nil, store.Wrap("cart_items.upsert", cartID, store.ErrNotFound)
	}

	now := s.now()
	rec.cart.UpdatedAt = now
	for i := range rec.items {
		if rec.items[i].ProductID == productID {
			rec.items[i].Quantity += quantity
			rec.items[i].UpdatedAt = now
			item := rec.items[i]
			return &item, nil
		}
	}

	item := cart.CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.items = append(rec.items, item)
	return &item, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*cart.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("cart_items.update", itemID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.carts[cartID]
	if !ok {
		return nil, store.Wrap("cart_items.update", itemID, store.ErrNotFound)
	}
	for i := range rec.items {
		if rec.items[i].ID == itemID {
			rec.items[i].Quantity = quantity
			rec.items[i].UpdatedAt = s.now()
			item := rec.items[i]
			return &item, nil
		}
	}
	return nil, store.Wrap("cart_items.update", itemID, store.ErrNotFound)
}

func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("cart_items.delete", itemID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.carts[cartID]
	if !ok {
		return store.Wrap("cart_items.delete", itemID, store.ErrNotFound)
	}
	for i := range rec.items {
		if rec.items[i].ID == itemID {
			rec.items = append(rec.items[:i], rec.items[i+1:]...)
			return nil
		}
	}
	return store.Wrap("cart_items.delete", itemID, store.ErrNotFound)
}

func (s *Store) DeleteCartItems(ctx context.Context, cartID string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("cart_items.delete_many", cartID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.carts[cartID]; ok {
		rec.items = nil
		rec.cart.UpdatedAt = s.now()
	}
	return nil
}

// helpers, called with the lock held

func (s *Store) matching(where catalog.Predicate) []product.Product {
	out := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		if where.Matches(&p, s.categorySlug(&p)) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) categorySlug(p *product.Product) string {
	if p.CategoryID == nil {
		return ""
	}
	return s.categories[*p.CategoryID].Slug
}

func (s *Store) withCategory(p product.Product) product.Product {
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func fieldValue(p *product.Product, field catalog.Field) string {
	var v *string
	switch field {
	case catalog.FieldBrand:
		v = p.Brand
	case catalog.FieldColor:
		v = p.Color
	case catalog.FieldSize:
		v = p.Size
	case catalog.FieldCategoryID:
		v = p.CategoryID
	}
	if v == nil {
		return ""
	}
	return *v
}

func sortCategories(categories []product.Category) {
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].Slug < categories[j].Slug
	})
}
