package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

var errNoRedis = errors.New("redis client is nil")

// RateLimiter is a fixed-window counter in Redis. It is disabled in the
// development, test and stress environments.
type RateLimiter struct {
	rdb      *redis.Client
	disabled bool
}

// NewRateLimiter returns a limiter for env; rdb may be nil.
func NewRateLimiter(rdb *redis.Client, env string) *RateLimiter {
	switch env {
	case "", "development", "test", "stress":
		return &RateLimiter{rdb: rdb, disabled: true}
	}
	return &RateLimiter{rdb: rdb}
}

// Check counts one hit of id against resource and reports whether it is within
// limit, how many hits remain and when the window resets.
func (l *RateLimiter) Check(ctx context.Context, resource, id string, limit int, window time.Duration) (allowed bool, remaining int, reset time.Duration, err error) {
	if l.disabled {
		return true, limit, 0, nil
	}
	if l.rdb == nil {
		return false, 0, 0, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, err
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, window)
	}

	reset, err = l.rdb.TTL(ctx, key).Result()
	if err != nil || reset < 0 {
		reset = window
	}

	remaining = limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(limit), remaining, reset, nil
}

// Handler enforces limit requests per window per client IP for resource.
func (l *RateLimiter) Handler(resource string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, remaining, reset, err := l.Check(c.UserContext(), resource, "ip:"+c.IP(), limit, window)
		if err != nil {
			if policy == FailClosed {
				observability.GlobalLogger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					"resource", resource, "error", err)
				return models.RespondWithError(c, fiber.StatusServiceUnavailable,
					models.NewInternalError(errors.New("rate limit unavailable")))
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(reset.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
				Code:  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
