package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastLocationKey = "fraudguard:last_location"

// OpenRedis connects to url and verifies the connection. It returns nil, nil
// when url is empty so callers can treat Redis as optional.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisLocations stores last-known locations in a single Redis hash keyed by
// card type, so every process sharing the Redis sees the same reference point.
type RedisLocations struct {
	client *redis.Client
}

func NewRedisLocations(client *redis.Client) *RedisLocations {
	return &RedisLocations{client: client}
}

func (l *RedisLocations) Get(ctx context.Context, cardType string) (string, bool, error) {
	loc, err := l.client.HGet(ctx, lastLocationKey, cardType).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get last location: %w: %w", ErrStoreUnavailable, err)
	}
	return loc, true, nil
}

func (l *RedisLocations) Set(ctx context.Context, cardType, location string) error {
	if err := l.client.HSet(ctx, lastLocationKey, cardType, location).Err(); err != nil {
		return fmt.Errorf("set last location: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
