// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
)

var (
	// ErrItemNotFound is returned when a cart item does not exist in the cart
	ErrItemNotFound = errors.New("cart item not found")
	// ErrProductNotFound is returned when adding a product that does not exist
	ErrProductNotFound = errors.New("product not found")
)

// Store is the persistence boundary of carts
type Store interface {
	// FindCart loads a cart with its items in insertion order and their
	// products, or store.ErrNotFound
	FindCart(ctx context.Context, cartID string) (*Cart, error)
	CreateCart(ctx context.Context, c *Cart) error
	// UpsertCartItem adds quantity to the cart's item for the product,
	// creating it when missing, as one atomic operation
	UpsertCartItem(ctx context.Context, cartID, productID string, quantity int) (*CartItem, error)
	// UpdateCartItemQuantity sets an item's quantity, or store.ErrNotFound
	UpdateCartItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*CartItem, error)
	// DeleteCartItem removes an item, or store.ErrNotFound
	DeleteCartItem(ctx context.Context, cartID, itemID string) error
	DeleteCartItems(ctx context.Context, cartID string) error
}

// ProductFinder looks products up by ID
type ProductFinder interface {
	FindProductByID(ctx context.Context, id string) (*product.Product, error)
}

// AddToCartRequest represents add to cart request. A missing or
// non-numeric quantity adds one.
type AddToCartRequest struct {
	ProductID string    `json:"productId" binding:"required"`
	Quantity  *Quantity `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request. A quantity
// of zero or less removes the item; a non-numeric one sets it to one.
type UpdateCartItemRequest struct {
	Quantity *Quantity `json:"quantity" binding:"required"`
}

// CartResponse represents a shopping cart with totals
type CartResponse struct {
	*Cart
	Totals CartTotals `json:"totals"`
}

// NewCartResponse wraps a cart with its totals
func NewCartResponse(c *Cart) *CartResponse {
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return &CartResponse{Cart: c, Totals: c.Totals()}
}

// Service handles cart business logic
type Service struct {
	store    Store
	products ProductFinder
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(s Store, products ProductFinder, logger *logrus.Logger) *Service {
	return &Service{
		store:    s,
		products: products,
		logger:   logger,
	}
}

// GetOrCreate returns the cart identified by cartID. An empty or unknown
// ID yields a new empty cart with a fresh ID.
func (s *Service) GetOrCreate(ctx context.Context, cartID string) (*Cart, error) {
	if cartID != "" {
		c, err := s.store.FindCart(ctx, cartID)
		if err == nil {
			return c, nil
		}
		if !store.IsNotFound(err) {
			return nil, fmt.Errorf("failed to retrieve cart: %w", err)
		}
	}

	c := &Cart{Items: []CartItem{}}
	if err := s.store.CreateCart(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.WithField("cart_id", c.ID).Debug("Cart created")
	return c, nil
}

// AddItem adds quantity of a product to the cart, merging with an existing
// line for the same product. Quantities below 1 add a single unit.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := s.products.FindProductByID(ctx, productID); err != nil {
		if store.IsNotFound(err) || errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	c, err := s.GetOrCreate(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UpsertCartItem(ctx, c.ID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	return s.reload(ctx, c.ID)
}

// UpdateItem sets the quantity of a cart item. A quantity of zero or less
// removes the item and returns nil.
func (s *Service) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*CartItem, error) {
	if cartID == "" || itemID == "" {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		if err := s.store.DeleteCartItem(ctx, cartID, itemID); err != nil {
			if store.IsNotFound(err) {
				return nil, ErrItemNotFound
			}
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil, nil
	}

	item, err := s.store.UpdateCartItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

// Clear removes every item from the cart and keeps the cart itself
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if cartID == "" {
		return nil
	}
	if err := s.store.DeleteCartItems(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) reload(ctx context.Context, cartID string) (*Cart, error) {
	c, err := s.store.FindCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return c, nil
}
