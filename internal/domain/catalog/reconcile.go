// internal/domain/catalog/reconcile.go
package catalog

import "sort"

// FacetValue is one option of a scalar facet as shown to the shopper
type FacetValue struct {
	Value    string `json:"value"`
	Count    int64  `json:"count"`
	Selected bool   `json:"selected"`
}

// CategoryFacet is one category option
type CategoryFacet struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Count    int64  `json:"count"`
	Selected bool   `json:"selected"`
}

// Reconcile merges the available values with the selected ones so a
// selection stays visible even when it no longer matches anything. The
// result is deduplicated and sorted ascending.
func Reconcile(available, selected []string) []string {
	merged := make([]string, 0, len(available)+len(selected))
	merged = append(merged, available...)
	merged = append(merged, selected...)
	if out := normalizeSet(merged); out != nil {
		return out
	}
	return []string{}
}

// WithCounts pairs reconciled values with their counts. A value missing
// from counts has count 0.
func WithCounts(values []string, counts map[string]int64, selected []string) []FacetValue {
	out := make([]FacetValue, 0, len(values))
	for _, v := range values {
		out = append(out, FacetValue{
			Value:    v,
			Count:    counts[v],
			Selected: contains(selected, v),
		})
	}
	return out
}

// ReconcileCategories merges available category facets with the selected
// slugs. Selected categories missing from available take their name from
// names, falling back to the slug, and have count 0. The result is sorted
// by name, then slug.
func ReconcileCategories(available []CategoryFacet, selected []string, names map[string]string) []CategoryFacet {
	bySlug := make(map[string]CategoryFacet, len(available)+len(selected))
	for _, c := range available {
		if c.Slug == "" {
			continue
		}
		if _, ok := bySlug[c.Slug]; ok {
			continue
		}
		c.Selected = false
		bySlug[c.Slug] = c
	}

	for _, slug := range selected {
		if slug == "" {
			continue
		}
		c, ok := bySlug[slug]
		if !ok {
			name := names[slug]
			if name == "" {
				name = slug
			}
			c = CategoryFacet{Slug: slug, Name: name}
		}
		c.Selected = true
		bySlug[slug] = c
	}

	out := make([]CategoryFacet, 0, len(bySlug))
	for _, c := range bySlug {
		out = append(out, c)
	}
	sortCategoryFacets(out)
	return out
}

func sortCategoryFacets(facets []CategoryFacet) {
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Name != facets[j].Name {
			return facets[i].Name < facets[j].Name
		}
		return facets[i].Slug < facets[j].Slug
	})
}
