package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func limitedApp(l *RateLimiter, limit int, policy FailPolicy) *fiber.App {
	app := fiber.New()
	app.Post("/comments", l.Handler("comment", limit, time.Minute, policy), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func post(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRateLimiter_Check(t *testing.T) {
	rdb, mr := newRedis(t)
	l := NewRateLimiter(rdb, "production")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _, err := l.Check(ctx, "comment", "ip:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, reset, err := l.Check(ctx, "comment", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Greater(t, reset, time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	allowed, _, _, err = l.Check(ctx, "comment", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_BypassedOutsideProduction(t *testing.T) {
	for _, env := range []string{"", "development", "test", "stress"} {
		l := NewRateLimiter(nil, env)
		allowed, _, _, err := l.Check(context.Background(), "comment", "ip:1", 1, time.Minute)
		assert.NoError(t, err, env)
		assert.True(t, allowed, env)
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	t.Run("rejects over the limit", func(t *testing.T) {
		rdb, _ := newRedis(t)
		app := limitedApp(NewRateLimiter(rdb, "production"), 1, FailOpen)

		first := post(t, app)
		assert.Equal(t, http.StatusCreated, first.StatusCode)
		assert.Equal(t, "0", first.Header.Get("X-RateLimit-Remaining"))

		second := post(t, app)
		assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
		assert.NotEmpty(t, second.Header.Get(fiber.HeaderRetryAfter))
	})

	t.Run("fail open without redis", func(t *testing.T) {
		app := limitedApp(NewRateLimiter(nil, "production"), 1, FailOpen)
		assert.Equal(t, http.StatusCreated, post(t, app).StatusCode)
	})

	t.Run("fail closed without redis", func(t *testing.T) {
		app := limitedApp(NewRateLimiter(nil, "production"), 1, FailClosed)
		assert.Equal(t, http.StatusServiceUnavailable, post(t, app).StatusCode)
	})

	t.Run("bypass in test mode", func(t *testing.T) {
		app := limitedApp(NewRateLimiter(nil, "test"), 1, FailClosed)
		assert.Equal(t, http.StatusCreated, post(t, app).StatusCode)
		assert.Equal(t, http.StatusCreated, post(t, app).StatusCode)
	})
}
