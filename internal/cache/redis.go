// Package cache provides the Redis client and cache-aside helpers used by the
// dashboard server.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialpulse/internal/observability"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// ParseOptions accepts a plain host:port or a redis:// / rediss:// URL.
func ParseOptions(raw string) (*redis.Options, error) {
	if raw == "" {
		raw = "localhost:6379"
	}

	opts := &redis.Options{Addr: raw}
	if strings.Contains(raw, "://") {
		parsed, err := redis.ParseURL(raw)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}
	// Servers without CLIENT MAINT_NOTIFICATIONS reject the handshake.
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}
	return opts, nil
}

// NewClient builds an instrumented client without touching the network.
func NewClient(raw string) (*redis.Client, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client, nil
}

// InitRedis connects to Redis. It returns nil when the address is invalid or
// the server does not answer; callers then run without cache, rate limiting
// or cross-instance notifications.
func InitRedis(addr string) *redis.Client {
	logger := observability.GlobalLogger

	client, err := NewClient(addr)
	if err != nil {
		logger.Warn("invalid REDIS_URL, continuing without cache", "redis_url", addr, "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("redis connected", "addr", client.Options().Addr)
	return client
}
