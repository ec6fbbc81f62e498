// internal/domain/catalog/filters.go
package catalog

import "sort"

// Dimension names a facet whose values are aggregated
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionBrand    Dimension = "brand"
	DimensionColor    Dimension = "color"
	DimensionSize     Dimension = "size"
)

// ValueDimensions are the facets stored as scalar product fields
var ValueDimensions = []Dimension{DimensionBrand, DimensionColor, DimensionSize}

// Field is a product attribute a store can project
type Field string

const (
	FieldBrand      Field = "brand"
	FieldColor      Field = "color"
	FieldSize       Field = "size"
	FieldCategoryID Field = "category_id"
)

// Field returns the product field holding the dimension's value
func (d Dimension) Field() Field {
	switch d {
	case DimensionBrand:
		return FieldBrand
	case DimensionColor:
		return FieldColor
	case DimensionSize:
		return FieldSize
	default:
		return FieldCategoryID
	}
}

// ProductFilters is the typed filter state of a catalog request. Every
// set is sorted and free of duplicates; an empty set places no constraint.
// Prices are inclusive bounds in cents.
type ProductFilters struct {
	CategorySlugs []string `json:"category_slugs,omitempty"`
	Brands        []string `json:"brands,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	MinPrice      *int64   `json:"min_price,omitempty"`
	MaxPrice      *int64   `json:"max_price,omitempty"`
}

// Selected returns the selected values of a dimension
func (f ProductFilters) Selected(d Dimension) []string {
	switch d {
	case DimensionCategory:
		return f.CategorySlugs
	case DimensionBrand:
		return f.Brands
	case DimensionColor:
		return f.Colors
	case DimensionSize:
		return f.Sizes
	}
	return nil
}

// withSelected returns a copy of f with the dimension's selection replaced
func (f ProductFilters) withSelected(d Dimension, values []string) ProductFilters {
	values = normalizeSet(values)
	switch d {
	case DimensionCategory:
		f.CategorySlugs = values
	case DimensionBrand:
		f.Brands = values
	case DimensionColor:
		f.Colors = values
	case DimensionSize:
		f.Sizes = values
	}
	return f
}

// IsEmpty reports whether no filter is active
func (f ProductFilters) IsEmpty() bool {
	return len(f.CategorySlugs) == 0 && len(f.Brands) == 0 && len(f.Colors) == 0 &&
		len(f.Sizes) == 0 && f.MinPrice == nil && f.MaxPrice == nil
}

// normalizeSet drops blanks and duplicates and sorts what is left
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func int64Ptr(v int64) *int64 {
	return &v
}
