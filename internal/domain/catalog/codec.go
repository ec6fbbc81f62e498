// internal/domain/catalog/codec.go
package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Query parameter names
const (
	ParamCategory = "category"
	ParamBrand    = "brand"
	ParamColor    = "color"
	ParamSize     = "size"
	ParamMin      = "min"
	ParamMax      = "max"
	ParamPage     = "page"
	ParamPageSize = "perPage"
)

// Page size bounds
const (
	DefaultPageSize = 24
	MinPageSize     = 6
	MaxPageSize     = 96
)

// PageSizeOptions are the page sizes offered to shoppers
var PageSizeOptions = []int{12, 24, 36, 48, 60, 72, 96}

// Magnitude limits applied before any decimal arithmetic. Rescaling a
// decimal costs time proportional to its exponent, so bounds are judged by
// their order of magnitude first.
const (
	maxAmountLength = 32
	// dollars of order 10^17 and up exceed the int64 cents range
	saturateOrder = 17
	// dollars below 10^-3 round to 0 cents
	zeroOrder = -3
)

var (
	centsPerDollar = decimal.NewFromInt(100)
	maxCents       = decimal.NewFromInt(math.MaxInt64)
)

// Query is a decoded catalog request
type Query struct {
	Filters  ProductFilters
	Page     int
	PageSize int
}

// Decode maps raw query parameters onto a catalog query. It never fails:
// malformed input is clamped or dropped.
func Decode(values url.Values) Query {
	filters := ProductFilters{
		CategorySlugs: normalizeSet(values[ParamCategory]),
		Brands:        normalizeSet(values[ParamBrand]),
		Colors:        normalizeSet(values[ParamColor]),
		Sizes:         normalizeSet(values[ParamSize]),
	}

	if cents, ok := DollarsToCents(values.Get(ParamMin)); ok {
		filters.MinPrice = int64Ptr(cents)
	}
	if cents, ok := DollarsToCents(values.Get(ParamMax)); ok {
		filters.MaxPrice = int64Ptr(cents)
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		filters.MinPrice, filters.MaxPrice = filters.MaxPrice, filters.MinPrice
	}

	return Query{
		Filters:  filters,
		Page:     ParsePage(values.Get(ParamPage)),
		PageSize: ParsePageSize(values.Get(ParamPageSize)),
	}
}

// Encode renders filters and pagination as canonical query parameters
func Encode(filters ProductFilters, page, pageSize int) url.Values {
	values := url.Values{}
	for _, d := range []Dimension{DimensionCategory, DimensionBrand, DimensionColor, DimensionSize} {
		for _, v := range normalizeSet(filters.Selected(d)) {
			values.Add(string(d), v)
		}
	}
	if filters.MinPrice != nil {
		values.Set(ParamMin, CentsToDollars(*filters.MinPrice))
	}
	if filters.MaxPrice != nil {
		values.Set(ParamMax, CentsToDollars(*filters.MaxPrice))
	}
	values.Set(ParamPage, strconv.Itoa(ClampPage(page)))
	values.Set(ParamPageSize, strconv.Itoa(ClampPageSize(pageSize)))
	return values
}

// Values encodes the query
func (q Query) Values() url.Values {
	return Encode(q.Filters, q.Page, q.PageSize)
}

// String returns the canonical query string
func (q Query) String() string {
	return q.Values().Encode()
}

// WithPage returns a copy of the query pointing at another page
func (q Query) WithPage(page int) Query {
	q.Page = ClampPage(page)
	return q
}

// DollarsToCents parses a dollar amount and converts it to cents, rounding
// half away from zero. Negative amounts become 0 and amounts beyond the
// int64 range saturate. Blank, non-numeric or overlong input reports false.
func DollarsToCents(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLength {
		return 0, false
	}
	dollars, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}
	if dollars.Sign() <= 0 {
		return 0, true
	}

	switch order := magnitude(dollars); {
	case order >= saturateOrder:
		return math.MaxInt64, true
	case order < zeroOrder:
		return 0, true
	}

	cents := dollars.Mul(centsPerDollar).Round(0)
	if cents.GreaterThan(maxCents) {
		return math.MaxInt64, true
	}
	return cents.IntPart(), true
}

// magnitude returns the base-10 order of a positive decimal, the exponent
// of its leading digit. It reads the coefficient and exponent only.
func magnitude(d decimal.Decimal) int64 {
	digits := int64(len(d.Coefficient().String()))
	return digits + int64(d.Exponent()) - 1
}

// CentsToDollars formats cents as whole dollars, keeping two decimals when
// the amount is not a whole number of dollars
func CentsToDollars(cents int64) string {
	if cents%100 == 0 {
		return strconv.FormatInt(cents/100, 10)
	}
	return decimal.New(cents, -2).StringFixed(2)
}

// ParsePage parses a 1-based page number
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return ClampPage(page)
}

// ParsePageSize parses a page size, defaulting when absent or malformed
func ParsePageSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	return ClampPageSize(size)
}

// ClampPage clamps non-positive page numbers to 1
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampPageSize clamps a page size to [MinPageSize, MaxPageSize]
func ClampPageSize(size int) int {
	if size < MinPageSize {
		return MinPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
