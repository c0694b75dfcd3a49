// Package rediscache holds the Redis-backed token resolution cache. Cache
// failures degrade to database lookups; they are never surfaced to callers.
package rediscache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "loghog:token:"

// TokenCache caches positive token resolutions (digest -> app id) with a TTL
// so revocations converge within a bounded window.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewTokenCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TokenCache {
	return &TokenCache{client: client, ttl: ttl, logger: logger}
}

// Get reports a cached resolution. Any Redis error counts as a miss.
func (c *TokenCache) Get(ctx context.Context, digest string) (uuid.UUID, bool) {
	val, err := c.client.Get(ctx, keyPrefix+digest).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("token cache read failed", "error", err)
		}
		return uuid.Nil, false
	}
	appID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return appID, true
}

// Set stores a positive resolution for the cache TTL.
func (c *TokenCache) Set(ctx context.Context, digest string, appID uuid.UUID) {
	if err := c.client.Set(ctx, keyPrefix+digest, appID.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("token cache write failed", "error", err)
	}
}

// Delete drops a cached resolution, used on revocation.
func (c *TokenCache) Delete(ctx context.Context, digest string) {
	if err := c.client.Del(ctx, keyPrefix+digest).Err(); err != nil {
		c.logger.Warn("token cache delete failed", "error", err)
	}
}
