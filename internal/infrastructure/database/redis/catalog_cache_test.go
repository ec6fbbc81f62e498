package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// unreachableClient points at a port nothing listens on
func unreachableClient(t *testing.T) *Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Client{Redis: rdb}
}

func TestCatalogCacheTreatsFailuresAsMisses(t *testing.T) {
	cache := NewCatalogCache(unreachableClient(t), time.Minute, logger.Discard())
	ctx := context.Background()

	resp, ok := cache.Get(ctx, "catalog:page=1&perPage=24")
	assert.False(t, ok)
	assert.Nil(t, resp)

	assert.NotPanics(t, func() {
		cache.Set(ctx, "catalog:page=1&perPage=24", &catalog.Response{})
	})
}

func TestClientErrorsSurface(t *testing.T) {
	client := unreachableClient(t)
	ctx := context.Background()

	_, err := client.Hit(ctx, "rate_limit:127.0.0.1", time.Minute)
	require.Error(t, err)

	require.Error(t, client.Health(ctx))

	var dest map[string]string
	err = client.GetJSON(ctx, "missing", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestSetJSONRejectsUnencodableValues(t *testing.T) {
	err := unreachableClient(t).SetJSON(context.Background(), "k", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode k")
}
