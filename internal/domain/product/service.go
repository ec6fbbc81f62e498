// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/store"
)

// ErrNotFound is returned when no product matches the requested key
var ErrNotFound = errors.New("product not found")

// Store is the persistence boundary the product service reads from
type Store interface {
	FindProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// FallbackCategories is served when the category list cannot be read
var FallbackCategories = []Category{
	{ID: "fallback-category-1", Slug: "category-1", Name: "Category 1"},
	{ID: "fallback-category-2", Slug: "category-2", Name: "Category 2"},
	{ID: "fallback-category-3", Slug: "category-3", Name: "Category 3"},
}

// Service handles product business logic
type Service struct {
	store  Store
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(s Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  s,
		logger: logger,
	}
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	product, err := s.store.FindProductBySlug(ctx, slug)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return product, nil
}

// ListCategories returns every category ordered by name. A read failure
// degrades to FallbackCategories so listing pages stay renderable.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("op", store.Op(err)).Warn("Category listing degraded to fallback")
		return append([]Category(nil), FallbackCategories...), nil
	}
	return categories, nil
}
