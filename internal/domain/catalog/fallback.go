// internal/domain/catalog/fallback.go
package catalog

// Fixture facets served when the store cannot be read and fallback is on
var (
	FallbackCategoryFacets = []CategoryFacet{
		{Slug: "category-1", Name: "Category 1", Count: 1},
		{Slug: "category-2", Name: "Category 2", Count: 1},
		{Slug: "category-3", Name: "Category 3", Count: 1},
	}

	fallbackFacets = map[Dimension]map[string]int64{
		DimensionBrand: {"Acme": 10, "Globex": 8, "Umbrella": 6},
		DimensionColor: {"black": 12, "white": 9, "red": 4, "blue": 7},
		DimensionSize:  {"S": 5, "M": 9, "L": 6},
	}
)

// FallbackFacet returns a fresh copy of the fixture facet of a dimension
func FallbackFacet(d Dimension) *Facet {
	counts := make(map[string]int64, len(fallbackFacets[d]))
	for v, n := range fallbackFacets[d] {
		counts[v] = n
	}
	return &Facet{
		Dimension: d,
		Values:    sortedKeys(counts),
		Counts:    counts,
	}
}

// FallbackCategories returns a fresh copy of the fixture category facets
func FallbackCategories() []CategoryFacet {
	return append([]CategoryFacet(nil), FallbackCategoryFacets...)
}
