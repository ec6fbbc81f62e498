// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/pkg/response"
)

// CatalogHandler handles catalog browsing endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	logger         *logrus.Logger
}

// CatalogMeta is returned alongside a catalog page
type CatalogMeta struct {
	PageSizeOptions []int `json:"page_size_options"`
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetCatalog handles GET /catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	q := catalog.Decode(c.Request.URL.Query())

	resp, err := h.catalogService.Catalog(c.Request.Context(), q)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"op":    store.Op(err),
			"query": q.String(),
		}).Error("Failed to assemble catalog")
		response.Unavailable(c, "Catalog is temporarily unavailable")
		return
	}

	response.SetPaginationHeaders(c, resp.Page, resp.PageSize, resp.Total, resp.TotalPages)
	response.SuccessWithMeta(c, resp, CatalogMeta{PageSizeOptions: catalog.PageSizeOptions})
}

// ListProducts handles GET /products. It accepts the catalog filters and
// ignores paging.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	q := catalog.Decode(c.Request.URL.Query())

	items, err := h.catalogService.ListProducts(c.Request.Context(), q.Filters)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"op":    store.Op(err),
			"query": q.String(),
		}).Error("Failed to list products")
		response.Unavailable(c, "Products are temporarily unavailable")
		return
	}

	response.Success(c, items)
}
