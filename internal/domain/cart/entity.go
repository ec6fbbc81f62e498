// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/domain/product"
	"gorm.io/gorm"
)

// Cart is a session-owned shopping cart. It outlives its items: clearing
// removes the items and keeps the cart.
type Cart struct {
	ID        string     `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE;" bson:"-" json:"items"`
}

// CartItem is one product line of a cart. A cart holds at most one item
// per product.
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CartID    string    `gorm:"size:36;not null;uniqueIndex:idx_cart_items_cart_product" bson:"cart_id" json:"cart_id"`
	ProductID string    `gorm:"size:36;not null;uniqueIndex:idx_cart_items_cart_product;index" bson:"product_id" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" bson:"quantity" json:"quantity"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" bson:"-" json:"product,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// BeforeCreate assigns a UUID when the caller did not
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when the caller did not
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // Sum of price * quantity, in cents
}

// Totals sums the cart's items. Items whose product is not loaded count
// toward quantities only.
func (c *Cart) Totals() CartTotals {
	var totals CartTotals
	for _, item := range c.Items {
		totals.ItemCount++
		totals.TotalQuantity += item.Quantity
		if item.Product != nil {
			totals.SubTotal += item.Product.Price * int64(item.Quantity)
		}
	}
	return totals
}
