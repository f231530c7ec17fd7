package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisChartPrefix = "admin:chart:"

// RedisChartCache shares rendered charts across processes through Redis.
// Redis failures degrade to rendering without caching.
type RedisChartCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	prefix  string
	timeout time.Duration
	onError func(error)
}

// RedisCacheOption customizes a RedisChartCache.
type RedisCacheOption func(*RedisChartCache)

// WithRedisPrefix overrides the key namespace.
func WithRedisPrefix(prefix string) RedisCacheOption {
	return func(c *RedisChartCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithRedisErrorHandler observes Redis errors that were swallowed.
func WithRedisErrorHandler(fn func(error)) RedisCacheOption {
	return func(c *RedisChartCache) {
		c.onError = fn
	}
}

// NewRedisChartCache wraps an existing client.
func NewRedisChartCache(client redis.UniversalClient, ttl time.Duration, options ...RedisCacheOption) *RedisChartCache {
	c := &RedisChartCache{
		client:  client,
		ttl:     ttl,
		prefix:  defaultRedisChartPrefix,
		timeout: 500 * time.Millisecond,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// DialRedis connects to addr and verifies the connection with a ping.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dashboard: redis ping: %w", err)
	}
	return client, nil
}

// GetOrRender implements RenderCache.
func (c *RedisChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return render()
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	html, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == nil {
		return html, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.report(err)
	}

	html, err = render()
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, c.prefix+key, html, c.ttl).Err(); err != nil {
		c.report(err)
	}
	return html, nil
}

// Invalidate removes cached charts for kind, or every chart when kind is empty.
func (c *RedisChartCache) Invalidate(ctx context.Context, kind ChartKind) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	pattern := c.prefix + "*"
	if kind != "" {
		pattern = c.prefix + string(kind) + ":*"
	}
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *RedisChartCache) report(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
