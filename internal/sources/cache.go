package sources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw upstream responses. Implementations swallow their own
// errors: a broken cache degrades to a miss, never to a failed fetch.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) {}

// RedisCache keeps responses in redis with a TTL.
type RedisCache struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, logger *log.Logger) *RedisCache {
	if logger == nil {
		logger = log.Default()
	}
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Printf("cache get %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Printf("cache set %s: %v", key, err)
	}
}

// Close releases the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }

// ConnRedis dials redis and verifies it answers PING within timeout.
func ConnRedis(ctx context.Context, host, port, pass string, db int, timeout time.Duration) (*redis.Client, error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		ReadTimeout: timeout,
		Password:    pass,
		DB:          db,
	})
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pong, err := client.Ping(pctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s:%s: %w", host, port, err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}
