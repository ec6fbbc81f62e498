// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/pkg/response"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      config.CartConfig
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg config.CartConfig, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
		logger:      logger,
	}
}

// UpdateCartItemResponse reports the outcome of a quantity change
type UpdateCartItemResponse struct {
	Item    *cart.CartItem `json:"item"`
	Removed bool           `json:"removed"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := h.cartID(c)

	result, err := h.cartService.GetOrCreate(c.Request.Context(), cartID)
	if err != nil {
		h.writeFailure(c, err, "Failed to retrieve cart", cartID)
		return
	}

	h.rememberCart(c, cartID, result.ID)
	response.Success(c, cart.NewCartResponse(result))
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cartID := h.cartID(c)
	result, err := h.cartService.AddItem(c.Request.Context(), cartID, req.ProductID, req.Quantity.Or(1))
	if err != nil {
		if errors.Is(err, cart.ErrProductNotFound) {
			response.NotFound(c, "Product")
			return
		}
		h.writeFailure(c, err, "Failed to add item to cart", cartID)
		return
	}

	h.rememberCart(c, cartID, result.ID)
	response.Success(c, cart.NewCartResponse(result))
}

// UpdateCartItem handles PUT /cart/items/:id. A quantity of zero or less
// removes the item.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.updateItem(c, c.Param("id"), req.Quantity.Or(1))
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	h.updateItem(c, c.Param("id"), 0)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID := h.cartID(c)

	if err := h.cartService.Clear(c.Request.Context(), cartID); err != nil {
		h.writeFailure(c, err, "Failed to clear cart", cartID)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) updateItem(c *gin.Context, itemID string, quantity int) {
	cartID := h.cartID(c)

	item, err := h.cartService.UpdateItem(c.Request.Context(), cartID, itemID, quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			response.NotFound(c, "Cart item")
			return
		}
		h.writeFailure(c, err, "Failed to update cart item", cartID)
		return
	}

	response.Success(c, UpdateCartItemResponse{Item: item, Removed: item == nil})
}

// cartID reads the cart token from the session cookie
func (h *CartHandler) cartID(c *gin.Context) string {
	id, err := c.Cookie(h.config.CookieName)
	if err != nil {
		return ""
	}
	return id
}

// rememberCart (re)issues the session cookie when the cart changed identity
func (h *CartHandler) rememberCart(c *gin.Context, previous, current string) {
	if previous == current {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.CookieName, current, int(h.config.CookieMaxAge.Seconds()), "/", "", h.config.CookieSecure, true)
}

// writeFailure reports a failed cart operation. The error is never masked;
// an unreachable store answers 503.
func (h *CartHandler) writeFailure(c *gin.Context, err error, message, cartID string) {
	h.logger.WithError(err).WithFields(logrus.Fields{
		"op":      store.Op(err),
		"cart_id": cartID,
	}).Error(message)
	failure(c, err, message)
}
