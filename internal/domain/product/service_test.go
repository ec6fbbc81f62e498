package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type brokenStore struct {
	err error
}

func (b brokenStore) FindProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return nil, store.Wrap("products.find_by_slug", slug, b.err)
}

func (b brokenStore) ListCategories(ctx context.Context) ([]product.Category, error) {
	return nil, store.Wrap("categories.list", "", b.err)
}

func newService(t *testing.T) *product.Service {
	t.Helper()
	categoryID := "c1"
	s := memory.NewStore()
	require.NoError(t, s.SeedCatalog(context.Background(),
		[]product.Category{
			{ID: "c2", Name: "Shoes", Slug: "shoes"},
			{ID: categoryID, Name: "Hats", Slug: "hats"},
		},
		[]product.Product{
			{ID: "p1", Name: "Graphic T-Shirt", Slug: "graphic-t-shirt", Price: 2500, CategoryID: &categoryID},
		},
	))
	return product.NewService(s, logger.Discard())
}

func TestGetProductBySlug(t *testing.T) {
	svc := newService(t)

	p, err := svc.GetProductBySlug(context.Background(), "graphic-t-shirt")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "hats", p.CategorySlug())

	_, err = svc.GetProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = svc.GetProductBySlug(context.Background(), "")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestGetProductBySlugStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	svc := product.NewService(brokenStore{err: boom}, logger.Discard())

	_, err := svc.GetProductBySlug(context.Background(), "graphic-t-shirt")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, product.ErrNotFound)
	assert.Equal(t, "products.find_by_slug", store.Op(err))
}

func TestListCategories(t *testing.T) {
	categories, err := newService(t).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Hats", categories[0].Name)
	assert.Equal(t, "Shoes", categories[1].Name)

	fallback, err := product.NewService(brokenStore{err: errors.New("down")}, logger.Discard()).
		ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, product.FallbackCategories, fallback)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "product-1-in-category-1-1", product.Slugify("Product 1 in Category 1-1"))
	assert.Equal(t, "hello-world", product.Slugify("  Hello,   World!  "))
	assert.Equal(t, "a-b", product.Slugify("a -- b"))
}

func TestIsValidSize(t *testing.T) {
	assert.True(t, product.IsValidSize("XXL"))
	assert.False(t, product.IsValidSize("xl"))
}
