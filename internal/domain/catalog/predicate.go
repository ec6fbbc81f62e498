// internal/domain/catalog/predicate.go
package catalog

import "github.com/your-org/storefront/internal/domain/product"

// Predicate is a conjunction of independent product constraints. A nil or
// empty clause does not constrain. Category matches by category slug; each
// store resolves slugs to its own category references.
type Predicate struct {
	CategorySlugs []string
	Brands        []string
	Colors        []string
	Sizes         []string
	MinPrice      *int64
	MaxPrice      *int64
}

// Build translates filters into a predicate, leaving out the clauses of
// the omitted dimensions
func Build(filters ProductFilters, omit ...Dimension) Predicate {
	omitted := func(d Dimension) bool {
		for _, o := range omit {
			if o == d {
				return true
			}
		}
		return false
	}

	var p Predicate
	if len(filters.CategorySlugs) > 0 && !omitted(DimensionCategory) {
		p.CategorySlugs = filters.CategorySlugs
	}
	if len(filters.Brands) > 0 && !omitted(DimensionBrand) {
		p.Brands = filters.Brands
	}
	if len(filters.Colors) > 0 && !omitted(DimensionColor) {
		p.Colors = filters.Colors
	}
	if len(filters.Sizes) > 0 && !omitted(DimensionSize) {
		p.Sizes = filters.Sizes
	}
	p.MinPrice = filters.MinPrice
	p.MaxPrice = filters.MaxPrice
	return p
}

// IsEmpty reports whether the predicate matches every product
func (p Predicate) IsEmpty() bool {
	return len(p.CategorySlugs) == 0 && len(p.Brands) == 0 && len(p.Colors) == 0 &&
		len(p.Sizes) == 0 && p.MinPrice == nil && p.MaxPrice == nil
}

// Matches evaluates the predicate against a product whose category slug
// has already been resolved ("" when it has none)
func (p Predicate) Matches(prod *product.Product, categorySlug string) bool {
	if len(p.CategorySlugs) > 0 && (categorySlug == "" || !contains(p.CategorySlugs, categorySlug)) {
		return false
	}
	if !matchesOptional(p.Brands, prod.Brand) {
		return false
	}
	if !matchesOptional(p.Colors, prod.Color) {
		return false
	}
	if !matchesOptional(p.Sizes, prod.Size) {
		return false
	}
	if p.MinPrice != nil && prod.Price < *p.MinPrice {
		return false
	}
	if p.MaxPrice != nil && prod.Price > *p.MaxPrice {
		return false
	}
	return true
}

func matchesOptional(allowed []string, value *string) bool {
	if len(allowed) == 0 {
		return true
	}
	return value != nil && contains(allowed, *value)
}
