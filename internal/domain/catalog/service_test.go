package catalog_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*catalog.Response
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*catalog.Response)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*catalog.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.entries[key]
	return resp, ok
}

func (c *mapCache) Set(ctx context.Context, key string, resp *catalog.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
	c.sets++
}

func decode(t *testing.T, raw string) catalog.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return catalog.Decode(values)
}

func TestCatalogEndToEnd(t *testing.T) {
	s, fixture := seededStore(t)
	svc := catalog.NewService(s, nil, catalog.Options{FallbackOnError: true}, logger.Discard())

	q := decode(t, "category=category-1&min=5&max=200&page=1&perPage=24")
	resp, err := svc.Catalog(context.Background(), q)
	require.NoError(t, err)

	var categoryID string
	for _, c := range fixture.Categories {
		if c.Slug == "category-1" {
			categoryID = c.ID
		}
	}
	var want int64
	for _, p := range fixture.Products {
		if *p.CategoryID == categoryID && p.Price >= 500 && p.Price <= 20000 {
			want++
		}
	}

	assert.Equal(t, want, resp.Total)
	assert.Len(t, resp.Items, int(min(24, want)))
	assert.False(t, resp.Degraded)
	for _, item := range resp.Items {
		assert.Equal(t, "category-1", item.CategorySlug())
		assert.GreaterOrEqual(t, item.Price, int64(500))
		assert.LessOrEqual(t, item.Price, int64(20000))
	}

	assert.Equal(t, catalog.PriceBounds{Min: 500, Max: 20000}, resp.PriceBounds)
	assert.Equal(t, "category=category-1&max=200&min=5&page=1&perPage=24", resp.Links.Self)
	assert.Empty(t, resp.Links.Prev)

	// the category facet ignores the category filter itself
	assert.Greater(t, len(resp.Categories), 1)
	var selected int
	for _, c := range resp.Categories {
		assert.Equal(t, c.Slug == "category-1", c.Selected, c.Slug)
		if c.Selected {
			selected++
			assert.Equal(t, want, c.Count)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestCatalogKeepsSelectionsThatMatchNothing(t *testing.T) {
	svc := catalog.NewService(smallStore(t), nil, catalog.Options{}, logger.Discard())

	resp, err := svc.Catalog(context.Background(), decode(t, "brand=Acme&color=blue&category=category-2"))
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.Total)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Contains(t, resp.Brands, catalog.FacetValue{Value: "Acme", Count: 0, Selected: true})
	assert.Contains(t, resp.Colors, catalog.FacetValue{Value: "blue", Count: 0, Selected: true})
	assert.Equal(t, []catalog.CategoryFacet{
		{Slug: "category-2", Name: "Audio", Count: 0, Selected: true},
	}, resp.Categories)
}

func TestCatalogLinks(t *testing.T) {
	s, _ := seededStore(t)
	svc := catalog.NewService(s, nil, catalog.Options{}, logger.Discard())

	resp, err := svc.Catalog(context.Background(), decode(t, "page=2&perPage=12"))
	require.NoError(t, err)

	assert.Equal(t, int64(1000), resp.Total)
	assert.Equal(t, 84, resp.TotalPages)
	assert.Equal(t, "page=1&perPage=12", resp.Links.Prev)
	assert.Equal(t, "page=3&perPage=12", resp.Links.Next)
}

func TestCatalogFallback(t *testing.T) {
	boom := errors.New("server selection timeout")
	svc := catalog.NewService(failingStore{err: boom}, nil, catalog.Options{FallbackOnError: true}, logger.Discard())

	resp, err := svc.Catalog(context.Background(), decode(t, "brand=Wayne&category=category-9"))
	require.NoError(t, err)

	assert.True(t, resp.Degraded)
	assert.Equal(t, int64(0), resp.Total)
	assert.Empty(t, resp.Items)

	brands := make([]string, 0, len(resp.Brands))
	for _, b := range resp.Brands {
		brands = append(brands, b.Value)
	}
	assert.Equal(t, []string{"Acme", "Globex", "Umbrella", "Wayne"}, brands)
	assert.Len(t, resp.Colors, 4)
	assert.Len(t, resp.Sizes, 3)

	require.Len(t, resp.Categories, 4)
	assert.Equal(t, "category-9", resp.Categories[3].Slug)
	assert.True(t, resp.Categories[3].Selected)
}

func TestCatalogPropagatesErrorsWithoutFallback(t *testing.T) {
	boom := errors.New("server selection timeout")
	svc := catalog.NewService(failingStore{err: boom}, nil, catalog.Options{}, logger.Discard())

	_, err := svc.Catalog(context.Background(), decode(t, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCatalogCache(t *testing.T) {
	cache := newMapCache()
	svc := catalog.NewService(smallStore(t), cache, catalog.Options{}, logger.Discard())
	q := decode(t, "brand=Acme")

	first, err := svc.Catalog(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Catalog(context.Background(), q)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.entries, catalog.CacheKey(q))

	degraded := catalog.NewService(failingStore{err: errors.New("down")}, cache, catalog.Options{FallbackOnError: true}, logger.Discard())
	_, err = degraded.Catalog(context.Background(), decode(t, "brand=Globex"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "degraded responses are not cached")
}

func TestListProducts(t *testing.T) {
	svc := catalog.NewService(smallStore(t), nil, catalog.Options{}, logger.Discard())

	items, err := svc.ListProducts(context.Background(), catalog.ProductFilters{})
	require.NoError(t, err)
	slugs := make([]string, 0, len(items))
	for _, p := range items {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"blue-jacket", "plain-socks", "wireless-headphones", "graphic-t-shirt"}, slugs)

	items, err = svc.ListProducts(context.Background(), decode(t, "brand=Acme&max=30").Filters)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "plain-socks", items[0].Slug)
	assert.Equal(t, "graphic-t-shirt", items[1].Slug)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "category-1", items[0].Category.Slug)
}

func TestListProductsCapsAtLimit(t *testing.T) {
	s, _ := seededStore(t)
	svc := catalog.NewService(s, nil, catalog.Options{}, logger.Discard())

	items, err := svc.ListProducts(context.Background(), catalog.ProductFilters{})
	require.NoError(t, err)
	require.Len(t, items, catalog.ListLimit)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func TestListProductsFallback(t *testing.T) {
	boom := errors.New("server selection timeout")

	strict := catalog.NewService(failingStore{err: boom}, nil, catalog.Options{}, logger.Discard())
	_, err := strict.ListProducts(context.Background(), catalog.ProductFilters{})
	assert.ErrorIs(t, err, boom)

	lenient := catalog.NewService(failingStore{err: boom}, nil, catalog.Options{FallbackOnError: true}, logger.Discard())
	items, err := lenient.ListProducts(context.Background(), catalog.ProductFilters{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
