// internal/pkg/response/pagination.go
package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SetPaginationHeaders mirrors the pagination block into response headers
func SetPaginationHeaders(c *gin.Context, page, perPage int, total int64, totalPages int) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(page))
	c.Header("X-Per-Page", strconv.Itoa(perPage))
	c.Header("X-Total-Pages", strconv.Itoa(totalPages))
}
