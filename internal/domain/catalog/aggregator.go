// internal/domain/catalog/aggregator.go
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/your-org/storefront/internal/domain/product"
)

// ProductQuery selects a window of matching products, newest first
type ProductQuery struct {
	Where  Predicate
	Offset int
	Limit  int
}

// Store is the read boundary of the catalog. Implementations resolve the
// category clause of a predicate by slug.
type Store interface {
	// CountProducts counts products matching the predicate
	CountProducts(ctx context.Context, where Predicate) (int64, error)
	// FindProducts returns matching products ordered by creation time
	// descending, then id descending, with their category loaded
	FindProducts(ctx context.Context, q ProductQuery) ([]product.Product, error)
	// ProjectField returns the field's value for every matching product,
	// "" when the product has none
	ProjectField(ctx context.Context, where Predicate, field Field) ([]string, error)
	FindCategoriesByIDs(ctx context.Context, ids []string) ([]product.Category, error)
	ListCategories(ctx context.Context) ([]product.Category, error)
}

// Facet is the aggregation of one dimension under the other active filters
type Facet struct {
	Dimension Dimension
	Values    []string
	Counts    map[string]int64
}

// Aggregator computes facet values and counts with self-exclusion: the
// aggregated dimension's own filter is left out of the predicate.
type Aggregator struct {
	store Store
}

// NewAggregator creates a facet aggregator
func NewAggregator(s Store) *Aggregator {
	return &Aggregator{store: s}
}

// AvailableValues returns the distinct values of a scalar dimension,
// sorted ascending
func (a *Aggregator) AvailableValues(ctx context.Context, d Dimension, filters ProductFilters) ([]string, error) {
	facet, err := a.Facet(ctx, d, filters)
	if err != nil {
		return nil, err
	}
	return facet.Values, nil
}

// ValueCounts returns the number of matching products per value of a
// scalar dimension. Products without a value are not counted.
func (a *Aggregator) ValueCounts(ctx context.Context, d Dimension, filters ProductFilters) (map[string]int64, error) {
	facet, err := a.Facet(ctx, d, filters)
	if err != nil {
		return nil, err
	}
	return facet.Counts, nil
}

// Facet computes values and counts of a scalar dimension from a single
// projection
func (a *Aggregator) Facet(ctx context.Context, d Dimension, filters ProductFilters) (*Facet, error) {
	if d == DimensionCategory {
		return nil, fmt.Errorf("category is not a scalar dimension, use CategoryFacets")
	}

	projected, err := a.store.ProjectField(ctx, Build(filters, d), d.Field())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s facet: %w", d, err)
	}

	counts := Tally(projected)
	return &Facet{
		Dimension: d,
		Values:    sortedKeys(counts),
		Counts:    counts,
	}, nil
}

// CategoryFacets returns the categories reachable under every filter
// except the category filter, with product counts, sorted by name
func (a *Aggregator) CategoryFacets(ctx context.Context, filters ProductFilters) ([]CategoryFacet, error) {
	projected, err := a.store.ProjectField(ctx, Build(filters, DimensionCategory), FieldCategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category facet: %w", err)
	}

	countsByID := Tally(projected)
	if len(countsByID) == 0 {
		return []CategoryFacet{}, nil
	}

	categories, err := a.store.FindCategoriesByIDs(ctx, sortedKeys(countsByID))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve facet categories: %w", err)
	}

	facets := make([]CategoryFacet, 0, len(categories))
	for _, c := range categories {
		facets = append(facets, CategoryFacet{
			Slug:  c.Slug,
			Name:  c.Name,
			Count: countsByID[c.ID],
		})
	}
	sortCategoryFacets(facets)
	return facets, nil
}

// Tally counts occurrences of each non-empty value
func Tally(values []string) map[string]int64 {
	counts := make(map[string]int64)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	return counts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
