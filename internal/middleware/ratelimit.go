package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// limiterClient is the slice of the Redis API the limiter uses.
type limiterClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit enforces `limit` requests per `window` for the named resource,
// backed by a Redis fixed-window counter. Keys by the authenticated external
// UID when present, otherwise by remote IP. Fails open: a nil client or a
// Redis error lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil {
				return next(c)
			}

			var id string
			if uid, ok := c.Get(ContextKeyFirebaseUID).(string); ok && uid != "" {
				id = "user:" + uid
			} else {
				id = "ip:" + c.RealIP()
			}

			key := fmt.Sprintf("rl:%s:%s", resource, id)
			if !withinLimit(c.Request().Context(), rdb, key, limit, window) {
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Rate limit exceeded"})
			}

			return next(c)
		}
	}
}

// withinLimit increments the fixed-window counter and reports whether the
// request may proceed. A counter whose expiry could not be set is deleted:
// otherwise it would never reset and throttle the caller permanently.
func withinLimit(ctx context.Context, rdb limiterClient, key string, limit int, window time.Duration) bool {
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Rate limit check failed for %s (failing open): %v", key, err)
		return true
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("Rate limit expiry failed for %s (resetting counter): %v", key, err)
			rdb.Del(ctx, key)
			return true
		}
	}
	return cnt <= int64(limit)
}
