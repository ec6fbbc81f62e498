// internal/domain/catalog/selection.go
package catalog

// Price slider range, in whole dollars
const (
	SliderMinDollars = 0
	SliderMaxDollars = 2000
)

// Action is a shopper interaction with the filter panel
type Action interface {
	apply(q Query) Query
}

// ToggleValue selects a facet value, or deselects it when already selected
type ToggleValue struct {
	Dimension Dimension
	Value     string
}

// SetPriceRange moves both price handles, in whole dollars
type SetPriceRange struct {
	MinDollars int64
	MaxDollars int64
}

// SetPageSize changes the number of items per page
type SetPageSize struct {
	Size int
}

// GoToPage moves to another page without touching filters
type GoToPage struct {
	Page int
}

// ClearAll drops every filter and keeps the page size
type ClearAll struct{}

// Apply computes the next query after an action. Any change to the filters
// or the page size returns to the first page.
func Apply(current Query, action Action) Query {
	next := action.apply(current)
	next.PageSize = ClampPageSize(next.PageSize)
	next.Page = ClampPage(next.Page)
	return next
}

func (a ToggleValue) apply(q Query) Query {
	if a.Value == "" {
		return q
	}
	selected := q.Filters.Selected(a.Dimension)
	values := make([]string, 0, len(selected)+1)
	found := false
	for _, v := range selected {
		if v == a.Value {
			found = true
			continue
		}
		values = append(values, v)
	}
	if !found {
		values = append(values, a.Value)
	}
	q.Filters = q.Filters.withSelected(a.Dimension, values)
	q.Page = 1
	return q
}

func (a SetPriceRange) apply(q Query) Query {
	lo := clampDollars(a.MinDollars, SliderMinDollars, SliderMaxDollars)
	hi := clampDollars(a.MaxDollars, SliderMinDollars, SliderMaxDollars)
	if lo > hi {
		lo, hi = hi, lo
	}
	q.Filters.MinPrice = int64Ptr(lo * 100)
	q.Filters.MaxPrice = int64Ptr(hi * 100)
	q.Page = 1
	return q
}

func (a SetPageSize) apply(q Query) Query {
	q.PageSize = a.Size
	q.Page = 1
	return q
}

func (a GoToPage) apply(q Query) Query {
	q.Page = a.Page
	return q
}

func (ClearAll) apply(q Query) Query {
	return Query{Page: 1, PageSize: q.PageSize}
}

func clampDollars(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
