// internal/domain/catalog/pager.go
package catalog

import (
	"context"
	"fmt"

	"github.com/your-org/storefront/internal/domain/product"
)

// PagedResult is one page of matching products
type PagedResult struct {
	Items      []product.Product `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Pager runs the full predicate against the store
type Pager struct {
	store Store
}

// NewPager creates a catalog pager
func NewPager(s Store) *Pager {
	return &Pager{store: s}
}

// Page returns the total number of matches and the requested window,
// newest first. A page past the end yields no items and the real total.
func (p *Pager) Page(ctx context.Context, filters ProductFilters, page, pageSize int) (*PagedResult, error) {
	page = ClampPage(page)
	pageSize = ClampPageSize(pageSize)
	where := Build(filters)

	total, err := p.store.CountProducts(ctx, where)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := &PagedResult{
		Items:      []product.Product{},
		Pagination: NewPagination(page, pageSize, total),
	}

	if int64(page-1) >= (total+int64(pageSize)-1)/int64(pageSize) {
		return result, nil
	}

	items, err := p.store.FindProducts(ctx, ProductQuery{
		Where:  where,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}

// NewPagination derives page counts from a total
func NewPagination(page, pageSize int, total int64) Pagination {
	if total < 0 {
		total = 0
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
		HasNext:    int64(page) < int64(TotalPages(total, pageSize)),
		HasPrev:    page > 1,
	}
}

// TotalPages returns max(1, ceil(total/pageSize))
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
