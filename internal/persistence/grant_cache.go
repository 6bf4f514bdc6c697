package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const grantKeyPrefix = "impersonation:"

// RedisGrantCache stores active impersonation grant markers with the
// grant's TTL, so the store enforces expiry on its own.
type RedisGrantCache struct {
	client *redis.Client
}

// NewRedisGrantCache wraps a connected client.
func NewRedisGrantCache(client *redis.Client) *RedisGrantCache {
	return &RedisGrantCache{client: client}
}

// Put marks a grant active until the TTL lapses.
func (c *RedisGrantCache) Put(ctx context.Context, grantID string, ttl time.Duration) error {
	if c.client == nil {
		return errors.New("redis client not configured")
	}
	return c.client.Set(ctx, grantKeyPrefix+grantID, "1", ttl).Err()
}

// Exists reports whether a grant is still active.
func (c *RedisGrantCache) Exists(ctx context.Context, grantID string) (bool, error) {
	if c.client == nil {
		return false, errors.New("redis client not configured")
	}
	n, err := c.client.Exists(ctx, grantKeyPrefix+grantID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes the active marker. Removing a missing key is a no-op.
func (c *RedisGrantCache) Remove(ctx context.Context, grantID string) error {
	if c.client == nil {
		return errors.New("redis client not configured")
	}
	return c.client.Del(ctx, grantKeyPrefix+grantID).Err()
}
