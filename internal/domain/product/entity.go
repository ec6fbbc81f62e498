// internal/domain/product/entity.go
package product

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Sizes lists the enumerated product sizes, smallest first
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Product represents the product entity
type Product struct {
	ID          string         `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name        string         `gorm:"not null;size:255" bson:"name" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" bson:"slug" json:"slug"`
	Description string         `gorm:"type:text" bson:"description" json:"description"`
	Price       int64          `gorm:"not null;index" bson:"price" json:"price"` // Price in cents
	Images      pq.StringArray `gorm:"type:text[]" bson:"images" json:"images"`
	Brand       *string        `gorm:"size:100;index" bson:"brand,omitempty" json:"brand,omitempty"`
	Color       *string        `gorm:"size:50;index" bson:"color,omitempty" json:"color,omitempty"`
	Size        *string        `gorm:"size:10;index" bson:"size,omitempty" json:"size,omitempty"`
	CategoryID  *string        `gorm:"size:36;index" bson:"category_id,omitempty" json:"category_id,omitempty"`
	CreatedAt   time.Time      `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" bson:"-" json:"category,omitempty"`
}

// Category represents product categories
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name      string    `gorm:"not null;size:255;index" bson:"name" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:255" bson:"slug" json:"slug"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// BeforeCreate assigns a UUID when the caller did not
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when the caller did not
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategorySlug returns the slug of the loaded category, or "" when none
func (p *Product) CategorySlug() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}

// IsValidSize reports whether size is one of the enumerated sizes
func IsValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify generates a URL-safe slug from a display name
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpaces.ReplaceAllString(slug, "-")
	return slugDashes.ReplaceAllString(slug, "-")
}
