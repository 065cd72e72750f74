package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache wraps the redis client for list-level caching of knowledge base
// reads. Callers treat a nil *Cache as a disabled cache.
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func New(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Cache key formats
const (
	FeaturedEntriesKey = "kb:featured:%s:%d"
	PopularEntriesKey  = "kb:popular:%s:%d:%d"
)

const opTimeout = 2 * time.Second

func FeaturedKey(organization string, limit int) string {
	return fmt.Sprintf(FeaturedEntriesKey, organization, limit)
}

func PopularKey(organization string, days, limit int) string {
	return fmt.Sprintf(PopularEntriesKey, organization, days, limit)
}

// Set marshals the value to JSON and stores it with a TTL.
func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	if c == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get unmarshals a cached value into result. Returns redis.Nil on a miss.
func (c *Cache) Get(key string, result interface{}) error {
	if c == nil {
		return redis.Nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

// InvalidateEntryLists drops all cached featured/popular listings. Called
// after any knowledge base write.
func (c *Cache) InvalidateEntryLists() {
	if c == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	for _, pattern := range []string{"kb:featured:*", "kb:popular:*"} {
		keys, err := c.client.Keys(ctx, pattern).Result()
		if err != nil {
			c.logger.WithError(err).Warn("Failed to scan cache keys for invalidation")
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.WithError(err).Warn("Failed to invalidate cached entry lists")
		}
	}
}

// IsMiss reports whether err is a cache miss rather than a failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}
