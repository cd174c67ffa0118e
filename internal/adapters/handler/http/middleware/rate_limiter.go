package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "rate_limit:"

type fixedWindow struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

// hit counts one request for key and reports the window's remaining time.
// The expiry is only set when the key has none, so a window that lost its
// TTL heals on the next request.
func (w fixedWindow) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	var incr *redis.IntCmd
	var pttl *redis.DurationCmd

	_, err := w.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, w.window)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		ttl = w.window
	}
	return incr.Val(), ttl, nil
}

// RateLimiterMiddleware is a fixed-window limiter keyed by client IP.
// Redis errors let the request through.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	fw := fixedWindow{rdb: rdb, limit: int64(limit), window: window}

	return func(c *gin.Context) {
		count, ttl, err := fw.hit(c.Request.Context(), rateKeyPrefix+c.ClientIP())
		if err != nil {
			log.Printf("[RATE] Redis error, limiter skipped: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(fw.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, fw.limit-count), 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if count <= fw.limit {
			c.Next()
			return
		}

		retry := int(ttl.Round(time.Second) / time.Second)
		c.Header("Retry-After", strconv.Itoa(retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      "too many requests",
			"retry_in_s": retry,
		})
	}
}
