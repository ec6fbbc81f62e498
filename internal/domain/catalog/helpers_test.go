package catalog_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/infrastructure/database/seed"
)

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// seededStore returns a memory store loaded with the demo fixture
func seededStore(t *testing.T) (*memory.Store, seed.Fixture) {
	t.Helper()
	fixture := seed.Generate(rand.New(rand.NewSource(42)), baseTime)
	s := memory.NewStore()
	require.NoError(t, s.SeedCatalog(context.Background(), fixture.Categories, fixture.Products))
	return s, fixture
}

// smallStore holds a handful of hand-written products:
//
//	p1 Acme  black M  2500  category-1
//	p2 Globex red  -  12999 category-2
//	p3 Acme  red  S  500   category-1
//	p4 -     blue L  90000 -
func smallStore(t *testing.T) *memory.Store {
	t.Helper()
	cat1 := product.Category{ID: "c1", Name: "Shirts", Slug: "category-1"}
	cat2 := product.Category{ID: "c2", Name: "Audio", Slug: "category-2"}
	products := []product.Product{
		{ID: "p1", Slug: "graphic-t-shirt", Name: "Graphic T-Shirt", Price: 2500, Brand: strPtr("Acme"), Color: strPtr("black"), Size: strPtr("M"), CategoryID: strPtr("c1"), CreatedAt: baseTime.Add(1 * time.Minute)},
		{ID: "p2", Slug: "wireless-headphones", Name: "Wireless Headphones", Price: 12999, Brand: strPtr("Globex"), Color: strPtr("red"), CategoryID: strPtr("c2"), CreatedAt: baseTime.Add(2 * time.Minute)},
		{ID: "p3", Slug: "plain-socks", Name: "Plain Socks", Price: 500, Brand: strPtr("Acme"), Color: strPtr("red"), Size: strPtr("S"), CategoryID: strPtr("c1"), CreatedAt: baseTime.Add(3 * time.Minute)},
		{ID: "p4", Slug: "blue-jacket", Name: "Blue Jacket", Price: 90000, Color: strPtr("blue"), Size: strPtr("L"), CreatedAt: baseTime.Add(4 * time.Minute)},
	}
	s := memory.NewStore()
	require.NoError(t, s.SeedCatalog(context.Background(), []product.Category{cat1, cat2}, products))
	return s
}

// failingStore fails every catalog read with err
type failingStore struct {
	err error
}

func (f failingStore) CountProducts(ctx context.Context, where catalog.Predicate) (int64, error) {
	return 0, store.Wrap("products.count", "", f.err)
}

func (f failingStore) FindProducts(ctx context.Context, q catalog.ProductQuery) ([]product.Product, error) {
	return nil, store.Wrap("products.find", "", f.err)
}

func (f failingStore) ProjectField(ctx context.Context, where catalog.Predicate, field catalog.Field) ([]string, error) {
	return nil, store.Wrap("products.project", string(field), f.err)
}

func (f failingStore) FindCategoriesByIDs(ctx context.Context, ids []string) ([]product.Category, error) {
	return nil, store.Wrap("categories.find_by_ids", "", f.err)
}

func (f failingStore) ListCategories(ctx context.Context) ([]product.Category, error) {
	return nil, store.Wrap("categories.list", "", f.err)
}
