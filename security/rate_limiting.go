package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
	}
}

// ScanRateLimit throttles the scan endpoints per client IP with a fixed
// redis counter window. Fails open when redis is unreachable so a cache
// outage cannot lock attendees out at the entry gate.
func (r *RateLimiter) ScanRateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:scan:%s", c.RealIP())

			count, err := r.redis.Incr(ctx, key).Result()
			if err == nil {
				if count == 1 {
					r.redis.Expire(ctx, key, r.window)
				}
				if count > r.limit {
					return c.JSON(http.StatusTooManyRequests, map[string]string{
						"error": "Too many requests. Please try again later.",
					})
				}
			}

			return next(c)
		}
	}
}
