package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const analysisStatsKey = "analysis_stats"

var ErrCacheMiss = errors.New("cache miss")

// Cache holds cached analyses and the analysis counters.
type Cache interface {
	// Get returns ErrCacheMiss when key is not cached.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrementStats(ctx context.Context, fields ...string) error
	Stats(ctx context.Context) (map[string]string, error)
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("error getting cached analysis: %w", err)
	}

	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("error caching analysis: %w", err)
	}

	return nil
}

// IncrementStats increments all fields in a single pipeline.
func (c *redisCache) IncrementStats(ctx context.Context, fields ...string) error {
	pipe := c.client.Pipeline()
	for _, field := range fields {
		pipe.HIncrBy(ctx, analysisStatsKey, field, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error updating analysis stats: %w", err)
	}

	return nil
}

func (c *redisCache) Stats(ctx context.Context) (map[string]string, error) {
	values, err := c.client.HGetAll(ctx, analysisStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting analysis stats: %w", err)
	}

	return values, nil
}
