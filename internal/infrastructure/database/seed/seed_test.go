package seed

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/pkg/logger"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingLoader struct {
	categoryCalls [][]product.Category
	productCalls  [][]product.Product
	resets        int
	err           error
}

func (l *recordingLoader) SeedCatalog(ctx context.Context, categories []product.Category, products []product.Product) error {
	if l.err != nil {
		return l.err
	}
	if len(categories) > 0 {
		l.categoryCalls = append(l.categoryCalls, categories)
	}
	if len(products) > 0 {
		l.productCalls = append(l.productCalls, products)
	}
	return nil
}

func (l *recordingLoader) Reset(ctx context.Context) error {
	l.resets++
	return l.err
}

func TestGenerateShape(t *testing.T) {
	f := Generate(rand.New(rand.NewSource(7)), now)

	require.Len(t, f.Categories, CategoryCount)
	require.Len(t, f.Products, ProductCount)
	assert.Equal(t, "category-1", f.Categories[0].Slug)
	assert.Equal(t, "Category 20", f.Categories[19].Name)

	categoryIDs := map[string]bool{}
	for _, c := range f.Categories {
		categoryIDs[c.ID] = true
	}

	slugs := map[string]bool{}
	for _, p := range f.Products {
		assert.GreaterOrEqual(t, p.Price, int64(MinPrice))
		assert.LessOrEqual(t, p.Price, int64(MaxPrice))
		require.NotNil(t, p.Brand)
		require.NotNil(t, p.Color)
		require.NotNil(t, p.Size)
		assert.Contains(t, Brands, *p.Brand)
		assert.Contains(t, Colors, *p.Color)
		assert.True(t, product.IsValidSize(*p.Size))
		require.NotNil(t, p.CategoryID)
		assert.True(t, categoryIDs[*p.CategoryID])
		assert.False(t, slugs[p.Slug], "duplicate slug %s", p.Slug)
		slugs[p.Slug] = true
	}

	last := f.Products[len(f.Products)-1]
	assert.True(t, last.CreatedAt.After(f.Products[0].CreatedAt))
	assert.True(t, last.CreatedAt.Before(now))
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(3)), now)
	b := Generate(rand.New(rand.NewSource(3)), now)
	assert.Equal(t, a, b)

	assert.Equal(t, Demo(now), Generate(rand.New(rand.NewSource(DemoSource)), now))
}

func TestStableIDsFollowSlugs(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(3)), now)
	b := Generate(rand.New(rand.NewSource(4)), now)
	assert.Equal(t, a.Categories[0].ID, b.Categories[0].ID)
	assert.NotEqual(t, stableID("product", "x"), stableID("category", "x"))
}

func TestSeederChunks(t *testing.T) {
	loader := &recordingLoader{}
	s := NewSeeder(loader, logger.Discard())

	f := Generate(rand.New(rand.NewSource(1)), now)
	f.Products = f.Products[:120]
	require.NoError(t, s.Seed(context.Background(), f))

	require.Len(t, loader.categoryCalls, 1)
	assert.Len(t, loader.categoryCalls[0], CategoryCount)
	require.Len(t, loader.productCalls, 3)
	assert.Len(t, loader.productCalls[0], chunkSize)
	assert.Len(t, loader.productCalls[2], 20)
}

func TestSeederPropagatesFailures(t *testing.T) {
	loader := &recordingLoader{err: errors.New("connection reset")}
	s := NewSeeder(loader, logger.Discard())

	err := s.Seed(context.Background(), Demo(now))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed categories")

	err = s.Reset(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, loader.resets)
}
