package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values in Redis. A Cache without a client misses on every
// read and drops every write.
type Cache struct {
	client *redis.Client
}

// New wraps client, which may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client returns the underlying Redis client, possibly nil.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c.Client() != nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return errors.New("redis not configured")
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON loads key into dest. found is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (found bool, err error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Aside serves key from Redis, or calls fetch to fill dest and stores the
// result for ttl unless fetch reports it as not storable. A Redis read error
// falls through to fetch; the write is best effort. hit reports whether dest
// came from Redis.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func(context.Context) (store bool, err error)) (hit bool, err error) {
	if ttl > 0 {
		if found, getErr := c.GetJSON(ctx, key, dest); getErr == nil && found {
			return true, nil
		}
	}

	store, err := fetch(ctx)
	if err != nil {
		return false, err
	}

	if ttl > 0 && store {
		_ = c.SetJSON(ctx, key, dest, ttl)
	}
	return false, nil
}

// Invalidate deletes keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
