// internal/infrastructure/database/redis/catalog_cache.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// CatalogCache keeps assembled catalog responses for a short TTL. Cache
// failures are logged and treated as misses.
type CatalogCache struct {
	client *Client
	ttl    time.Duration
	logger *logrus.Logger
}

var _ catalog.ResponseCache = (*CatalogCache)(nil)

// NewCatalogCache creates a catalog response cache
func NewCatalogCache(client *Client, ttl time.Duration, logger *logrus.Logger) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *CatalogCache) Get(ctx context.Context, key string) (*catalog.Response, bool) {
	var resp catalog.Response
	if err := c.client.GetJSON(ctx, key, &resp); err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.WithError(err).WithField("key", key).Warn("Catalog cache read failed")
		}
		return nil, false
	}
	return &resp, true
}

func (c *CatalogCache) Set(ctx context.Context, key string, resp *catalog.Response) {
	if c.ttl <= 0 {
		return
	}
	if err := c.client.SetJSON(ctx, key, resp, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Catalog cache write failed")
	}
}
