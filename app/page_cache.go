package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// GlobalFeedCacheKey is the single key under which the global feed's
// first page is cached. The global feed has no per-user variance.
const GlobalFeedCacheKey = "feed:global:page1"

// PageCache is a thin TTL cache over redis. Staleness is the policy:
// entries expire, writes never invalidate them, and a concurrent miss may
// recompute and overwrite the same key (last write wins).
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

func (pc *PageCache) TTL() time.Duration {
	return pc.ttl
}

// Get returns the cached value for key, or ok=false on a miss. Cache
// failures are treated as misses.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := pc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores value under key for ttl. Best effort: a failed write just
// means the next read recomputes.
func (pc *PageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = pc.client.Set(ctx, key, value, ttl).Err()
}

// Clear drops the given keys immediately. Exists for administrative and
// test use; normal invalidation is expiry only.
func (pc *PageCache) Clear(ctx context.Context, keys ...string) error {
	return pc.client.Del(ctx, keys...).Err()
}
