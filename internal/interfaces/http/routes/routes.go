// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
)

// Handlers groups the handlers mounted under the API prefix
type Handlers struct {
	Catalog *handlers.CatalogHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
}

// SetupRoutes mounts every API route on rg
func SetupRoutes(rg *gin.RouterGroup, h Handlers) {
	SetupCatalogRoutes(rg, h.Catalog)
	SetupProductRoutes(rg, h.Product)
	SetupCartRoutes(rg, h.Cart)
}

// SetupCatalogRoutes sets up faceted browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	rg.GET("/catalog", h.GetCatalog)
	rg.GET("/products", h.ListProducts)
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	rg.GET("/products/:slug", h.GetProductBySlug)
	rg.GET("/categories", h.GetCategories)
}

// SetupCartRoutes sets up cart related routes. The cart is identified by
// the session cookie only.
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:id", h.UpdateCartItem)
		cart.DELETE("/items/:id", h.RemoveFromCart)
	}
}
