package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisClientName  = "patzer"
	redisPingTimeout = 5 * time.Second

	redisReadTimeout  = time.Second
	redisWriteTimeout = time.Second
)

// redisOptions parses url and applies the client settings used for the analysis cache.
// Timeouts given in the URL are kept.
func redisOptions(url string) (*redis.Options, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %w", err)
	}

	if opts.ClientName == "" {
		opts.ClientName = redisClientName
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = redisReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = redisWriteTimeout
	}

	return opts, nil
}

// InitRedis initializes the Redis connection and checks it with a ping.
func InitRedis(url string) (*redis.Client, error) {
	opts, err := redisOptions(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging Redis at %s: %w", opts.Addr, err)
	}

	slog.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
