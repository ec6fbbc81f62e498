// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/pkg/response"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// GetProductBySlug handles GET /products/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	p, err := h.productService.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.NotFound(c, "Product")
			return
		}
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to retrieve product")
		failure(c, err, "Failed to retrieve product")
		return
	}

	response.Success(c, p)
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve categories")
		failure(c, err, "Failed to retrieve categories")
		return
	}

	response.Success(c, categories)
}

// failure answers 503 for an unreachable store and 500 otherwise
func failure(c *gin.Context, err error, message string) {
	if store.IsUnavailable(err) {
		response.Unavailable(c, message)
		return
	}
	response.InternalError(c, message)
}
