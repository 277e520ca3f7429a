package redisadapter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupCache reserves order ids in Redis ahead of the authoritative database
// check, absorbing the common duplicate-delivery case without a DB roundtrip.
type DedupCache struct {
	client *redis.Client
	prefix string
}

func NewDedupCache(client *redis.Client) *DedupCache {
	return &DedupCache{client: client, prefix: "orderhub:order:"}
}

func (c *DedupCache) Reserve(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.prefix+orderID, 1, ttl).Result()
}

func (c *DedupCache) Release(ctx context.Context, orderID string) error {
	return c.client.Del(ctx, c.prefix+orderID).Err()
}
