package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores quotes so repeat lookups do not hit the paid upstream API.
type Cache interface {
	Get(ctx context.Context, key string) (*Quote, error)
	Set(ctx context.Context, key string, q Quote, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*Quote, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, q Quote, ttl time.Duration) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}
