package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitMax    = 30
	rateLimitWindow = time.Second
)

// RateLimit enforces a per-IP sliding-window limit backed by Redis.
// Bookkeeping errors fail open.
func RateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix()
		key := fmt.Sprintf("gg:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > rateLimitMax {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "Too many requests, slow down")
			return
		}

		c.Next()
	}
}
