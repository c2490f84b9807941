package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ViewCounter buffers product detail-page view counts in Redis so the
// storefront read path never writes to Postgres. Counts are drained
// into products.views by the metrics worker.
type ViewCounter struct {
	redis *RedisClient
}

// NewViewCounter creates a new ViewCounter.
func NewViewCounter(redis *RedisClient) *ViewCounter {
	return &ViewCounter{redis: redis}
}

func (c *ViewCounter) key(productID string) string {
	return fmt.Sprintf("views:product:%s", productID)
}

// Record increments the buffered view count for a product.
func (c *ViewCounter) Record(ctx context.Context, productID string) error {
	_, err := c.redis.Incr(ctx, c.key(productID))
	return err
}

// Drain atomically collects and resets all buffered counts, returning
// productID -> views accumulated since the last drain. A count drained
// here is gone from Redis, so callers must persist it or lose it.
func (c *ViewCounter) Drain(ctx context.Context) (map[string]int, error) {
	keys, err := c.redis.ScanKeys(ctx, "views:product:*")
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(keys))
	for _, key := range keys {
		val, err := c.redis.GetDel(ctx, key)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // drained concurrently
			}
			return counts, err
		}
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			continue
		}
		productID := strings.TrimPrefix(key, "views:product:")
		counts[productID] = n
	}
	return counts, nil
}
