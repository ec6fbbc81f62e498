// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"golang.org/x/sync/errgroup"
)

// ResponseCache stores assembled catalog responses by canonical query
type ResponseCache interface {
	Get(ctx context.Context, key string) (*Response, bool)
	Set(ctx context.Context, key string, resp *Response)
}

// Options tunes the catalog service
type Options struct {
	// FallbackOnError serves fixture facets and an empty page when a read
	// fails instead of returning the error
	FallbackOnError bool
	// QueryTimeout bounds the whole fan-out; zero means no bound
	QueryTimeout time.Duration
}

// PriceBounds is the selected price window in cents
type PriceBounds struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Links are canonical query strings for navigation
type Links struct {
	Self string `json:"self"`
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Response is one assembled catalog page
type Response struct {
	Categories  []CategoryFacet   `json:"categories"`
	Brands      []FacetValue      `json:"brands"`
	Colors      []FacetValue      `json:"colors"`
	Sizes       []FacetValue      `json:"sizes"`
	PriceBounds PriceBounds       `json:"price_bounds"`
	Items       []product.Product `json:"items"`
	Pagination                    // flattened into the response
	Filters     ProductFilters    `json:"filters"`
	Links       Links             `json:"links"`
	Degraded    bool              `json:"degraded"`
}

// Service assembles catalog responses
type Service struct {
	store      Store
	aggregator *Aggregator
	pager      *Pager
	cache      ResponseCache
	opts       Options
	logger     *logrus.Logger
}

// NewService creates a new catalog service. cache may be nil.
func NewService(s Store, cache ResponseCache, opts Options, logger *logrus.Logger) *Service {
	return &Service{
		store:      s,
		aggregator: NewAggregator(s),
		pager:      NewPager(s),
		cache:      cache,
		opts:       opts,
		logger:     logger,
	}
}

// CacheKey returns the cache key of a query
func CacheKey(q Query) string {
	return "catalog:" + q.String()
}

// Catalog computes facets, counts and the requested page concurrently and
// merges them into one response
func (s *Service) Catalog(ctx context.Context, q Query) (*Response, error) {
	q.Page = ClampPage(q.Page)
	q.PageSize = ClampPageSize(q.PageSize)
	filters := q.Filters

	key := CacheKey(q)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	var (
		degraded   atomic.Bool
		mu         sync.Mutex
		facets     = make(map[Dimension]*Facet, len(ValueDimensions))
		categories []CategoryFacet
		names      map[string]string
		page       *PagedResult
	)

	// degrade decides whether a failed read is replaced by its fallback
	degrade := func(part string, err error) error {
		if !s.opts.FallbackOnError {
			return err
		}
		degraded.Store(true)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"op":   store.Op(err),
			"part": part,
		}).Warn("Catalog read degraded to fallback")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.aggregator.CategoryFacets(gctx, filters)
		if err != nil {
			if err := degrade("category_facets", err); err != nil {
				return err
			}
			result = FallbackCategories()
		}
		categories = result
		return nil
	})

	for _, d := range ValueDimensions {
		g.Go(func() error {
			facet, err := s.aggregator.Facet(gctx, d, filters)
			if err != nil {
				if err := degrade(string(d)+"_facet", err); err != nil {
					return err
				}
				facet = FallbackFacet(d)
			}
			mu.Lock()
			facets[d] = facet
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		if len(filters.CategorySlugs) == 0 {
			return nil
		}
		all, err := s.store.ListCategories(gctx)
		if err != nil {
			if err := degrade("categories", err); err != nil {
				return err
			}
			all = product.FallbackCategories
		}
		names = make(map[string]string, len(all))
		for _, c := range all {
			names[c.Slug] = c.Name
		}
		return nil
	})

	g.Go(func() error {
		result, err := s.pager.Page(gctx, filters, q.Page, q.PageSize)
		if err != nil {
			if err := degrade("page", err); err != nil {
				return err
			}
			result = &PagedResult{
				Items:      []product.Product{},
				Pagination: NewPagination(q.Page, q.PageSize, 0),
			}
		}
		page = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{
		Categories:  ReconcileCategories(categories, filters.CategorySlugs, names),
		Brands:      s.reconcileFacet(facets[DimensionBrand], filters.Brands),
		Colors:      s.reconcileFacet(facets[DimensionColor], filters.Colors),
		Sizes:       s.reconcileFacet(facets[DimensionSize], filters.Sizes),
		PriceBounds: priceBounds(filters),
		Items:       page.Items,
		Pagination:  page.Pagination,
		Filters:     filters,
		Links:       links(q, page.Pagination),
		Degraded:    degraded.Load(),
	}

	if s.cache != nil && !resp.Degraded {
		s.cache.Set(ctx, key, resp)
	}
	return resp, nil
}

// ListLimit caps the plain product listing
const ListLimit = 60

// ListProducts returns up to ListLimit products matching filters, newest
// first, with their categories. With FallbackOnError a failed read yields
// an empty list.
func (s *Service) ListProducts(ctx context.Context, filters ProductFilters) ([]product.Product, error) {
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	items, err := s.store.FindProducts(ctx, ProductQuery{Where: Build(filters), Limit: ListLimit})
	if err != nil {
		if !s.opts.FallbackOnError {
			return nil, err
		}
		s.logger.WithError(err).WithField("op", store.Op(err)).Warn("Product listing degraded to empty")
		return []product.Product{}, nil
	}
	if items == nil {
		items = []product.Product{}
	}
	return items, nil
}

func (s *Service) reconcileFacet(facet *Facet, selected []string) []FacetValue {
	return WithCounts(Reconcile(facet.Values, selected), facet.Counts, selected)
}

func priceBounds(filters ProductFilters) PriceBounds {
	bounds := PriceBounds{Min: SliderMinDollars * 100, Max: SliderMaxDollars * 100}
	if filters.MinPrice != nil {
		bounds.Min = *filters.MinPrice
	}
	if filters.MaxPrice != nil {
		bounds.Max = *filters.MaxPrice
	}
	return bounds
}

func links(q Query, p Pagination) Links {
	l := Links{Self: q.String()}
	if p.HasPrev {
		l.Prev = q.WithPage(q.Page - 1).String()
	}
	if p.HasNext {
		l.Next = q.WithPage(q.Page + 1).String()
	}
	return l
}
