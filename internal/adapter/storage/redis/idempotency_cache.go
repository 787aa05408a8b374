package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyCache is the fast-path replay check. It caches the response
// payload for a submission key; the database log remains authoritative.
type IdempotencyCache struct {
	client *redis.Client
}

func NewIdempotencyCache(client *redis.Client) *IdempotencyCache {
	return &IdempotencyCache{client: client}
}

func idemKey(key string) string {
	return "idem:" + key
}

// Get returns the cached response for key, or (nil, nil) on a miss.
func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, idemKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency entry: %w", err)
	}
	return data, nil
}

func (c *IdempotencyCache) Set(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, idemKey(key), response, ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency entry: %w", err)
	}
	return nil
}
