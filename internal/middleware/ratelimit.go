package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/pkg/metrics"
	"github.com/second-brain/core/internal/pkg/response"
)

const rateLimitWindow = time.Minute

// Counter increments a windowed counter. Implemented by pkg/redis.Client.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit enforces a fixed one-minute window of perMinute requests per
// client IP. Counter errors let the request through.
func RateLimit(counter Counter, perMinute int, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(rateLimitWindow/time.Second)
		key := fmt.Sprintf("secondbrain:rate_limit:%s:%d", ip, window)

		count, err := counter.Hit(c.Request.Context(), key, rateLimitWindow+time.Second)
		if err != nil {
			if log != nil {
				log.Warn("rate limit counter unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		if count > int64(perMinute) {
			metrics.RateLimited.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow/time.Second)))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
