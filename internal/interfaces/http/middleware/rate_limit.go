// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/response"
	"golang.org/x/time/rate"
)

const (
	rateLimitWindow  = time.Minute
	visitorIdleAfter = 3 * time.Minute
)

// Counter counts hits of a key within a fixed window shared between
// instances
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit limits requests per client IP. With a counter the limit is a
// fixed one-minute window shared through it; without one each client gets
// an in-process token bucket. A failing counter lets the request through.
func RateLimit(cfg config.SecurityConfig, counter Counter, logger *logrus.Logger) gin.HandlerFunc {
	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if counter == nil {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = limit
		}
		return NewRateLimiter(rate.Limit(float64(limit)/rateLimitWindow.Seconds()), burst).Middleware()
	}

	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		current, err := counter.Hit(ctx, key, rateLimitWindow)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("Rate limit counter unavailable")
			c.Next()
			return
		}

		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "Rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	visitors  map[string]*visitor
	mtx       sync.Mutex
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      r,
		burst:     b,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rateLimitWindow {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleAfter {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, now}
		return limiter
	}

	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			return
		}

		c.Next()
	}
}
