// internal/infrastructure/database/seed/seed.go
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
)

// Fixture sizes and value palettes
const (
	CategoryCount = 20
	ProductCount  = 1000
	MinPrice      = 500
	MaxPrice      = 200000
	chunkSize     = 50

	// DemoSource seeds the random source of the demo catalog
	DemoSource int64 = 1
)

var (
	Brands = []string{"Acme", "Globex", "Umbrella", "Wayne", "Stark", "Wonka", "Initech", "Hooli"}
	Colors = []string{"black", "white", "gray", "red", "blue", "green", "yellow", "purple", "pink", "orange", "brown", "beige"}
)

// Fixture is a generated catalog
type Fixture struct {
	Categories []product.Category
	Products   []product.Product
}

// Loader persists fixtures
type Loader interface {
	SeedCatalog(ctx context.Context, categories []product.Category, products []product.Product) error
	Reset(ctx context.Context) error
}

// Generate builds the demo catalog. IDs derive from slugs, so generating
// twice with the same source yields the same records. Products are created
// one second apart, the last one newest.
func Generate(r *rand.Rand, now time.Time) Fixture {
	categories := make([]product.Category, 0, CategoryCount)
	for i := 1; i <= CategoryCount; i++ {
		name := fmt.Sprintf("Category %d", i)
		slug := product.Slugify(name)
		categories = append(categories, product.Category{
			ID:        stableID("category", slug),
			Name:      name,
			Slug:      slug,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	products := make([]product.Product, 0, ProductCount)
	for i := 0; i < ProductCount; i++ {
		cat := categories[r.Intn(len(categories))]
		name := fmt.Sprintf("Product %d in %s", i+1, cat.Name)
		slug := product.Slugify(fmt.Sprintf("%s-%d", name, i+1))
		created := now.Add(time.Duration(i-ProductCount) * time.Second)

		products = append(products, product.Product{
			ID:          stableID("product", slug),
			Name:        name,
			Slug:        slug,
			Description: "Description for " + name,
			Price:       int64(MinPrice + r.Intn(MaxPrice-MinPrice+1)),
			Images:      pq.StringArray{},
			Brand:       pick(r, Brands),
			Color:       pick(r, Colors),
			Size:        pick(r, product.Sizes),
			CategoryID:  &cat.ID,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}

	return Fixture{Categories: categories, Products: products}
}

// Demo generates the demo catalog from DemoSource
func Demo(now time.Time) Fixture {
	return Generate(rand.New(rand.NewSource(DemoSource)), now)
}

// Seeder loads fixtures in chunks and reports progress
type Seeder struct {
	loader Loader
	logger *logrus.Logger
}

// NewSeeder creates a seeder
func NewSeeder(loader Loader, logger *logrus.Logger) *Seeder {
	return &Seeder{loader: loader, logger: logger}
}

// Seed persists the fixture. Categories go in with the first chunk.
func (s *Seeder) Seed(ctx context.Context, f Fixture) error {
	if err := s.loader.SeedCatalog(ctx, f.Categories, nil); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	for start := 0; start < len(f.Products); start += chunkSize {
		end := start + chunkSize
		if end > len(f.Products) {
			end = len(f.Products)
		}
		if err := s.loader.SeedCatalog(ctx, nil, f.Products[start:end]); err != nil {
			return fmt.Errorf("failed to seed products %d-%d: %w", start, end, err)
		}
		s.logger.WithField("progress", fmt.Sprintf("%d/%d", end, len(f.Products))).Debug("Seed progress")
	}

	s.logger.WithFields(logrus.Fields{
		"categories": len(f.Categories),
		"products":   len(f.Products),
	}).Info("Seed completed")
	return nil
}

// Reset deletes every cart, product and category
func (s *Seeder) Reset(ctx context.Context) error {
	if err := s.loader.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	s.logger.Info("Database reset complete")
	return nil
}

func stableID(kind, slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront:"+kind+":"+slug)).String()
}

func pick(r *rand.Rand, values []string) *string {
	v := values[r.Intn(len(values))]
	return &v
}
