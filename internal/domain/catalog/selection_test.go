package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront/internal/domain/catalog"
)

func TestApplyToggleValue(t *testing.T) {
	q := catalog.Query{Page: 3, PageSize: 48}

	q = catalog.Apply(q, catalog.ToggleValue{Dimension: catalog.DimensionBrand, Value: "Globex"})
	q = catalog.Apply(q, catalog.ToggleValue{Dimension: catalog.DimensionBrand, Value: "Acme"})
	assert.Equal(t, []string{"Acme", "Globex"}, q.Filters.Brands)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 48, q.PageSize)

	q = catalog.Apply(q, catalog.ToggleValue{Dimension: catalog.DimensionBrand, Value: "Acme"})
	assert.Equal(t, []string{"Globex"}, q.Filters.Brands)

	q = catalog.Apply(q, catalog.ToggleValue{Dimension: catalog.DimensionBrand, Value: "Globex"})
	assert.Nil(t, q.Filters.Brands)

	q = catalog.Apply(q, catalog.ToggleValue{Dimension: catalog.DimensionCategory, Value: "category-2"})
	assert.Equal(t, []string{"category-2"}, q.Filters.CategorySlugs)
}

func TestApplySetPriceRange(t *testing.T) {
	q := catalog.Apply(catalog.Query{Page: 2, PageSize: 24}, catalog.SetPriceRange{MinDollars: -10, MaxDollars: 5000})
	assert.Equal(t, int64Ptr(0), q.Filters.MinPrice)
	assert.Equal(t, int64Ptr(200000), q.Filters.MaxPrice)
	assert.Equal(t, 1, q.Page)

	q = catalog.Apply(q, catalog.SetPriceRange{MinDollars: 300, MaxDollars: 100})
	assert.Equal(t, int64Ptr(10000), q.Filters.MinPrice)
	assert.Equal(t, int64Ptr(30000), q.Filters.MaxPrice)
}

func TestApplyPaging(t *testing.T) {
	q := catalog.Query{Filters: catalog.ProductFilters{Colors: []string{"red"}}, Page: 1, PageSize: 24}

	q = catalog.Apply(q, catalog.GoToPage{Page: 5})
	assert.Equal(t, 5, q.Page)
	assert.Equal(t, []string{"red"}, q.Filters.Colors)

	q = catalog.Apply(q, catalog.GoToPage{Page: -2})
	assert.Equal(t, 1, q.Page)

	q = catalog.Apply(q, catalog.GoToPage{Page: 4})
	q = catalog.Apply(q, catalog.SetPageSize{Size: 1000})
	assert.Equal(t, 96, q.PageSize)
	assert.Equal(t, 1, q.Page)
}

func TestApplyClearAll(t *testing.T) {
	q := catalog.Query{
		Filters:  catalog.ProductFilters{Brands: []string{"Acme"}, MinPrice: int64Ptr(100)},
		Page:     7,
		PageSize: 36,
	}

	q = catalog.Apply(q, catalog.ClearAll{})
	assert.True(t, q.Filters.IsEmpty())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 36, q.PageSize)
	assert.Equal(t, "page=1&perPage=36", q.String())
}
