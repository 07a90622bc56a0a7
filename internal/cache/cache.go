// Package cache keeps computed report payloads in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostel-admin/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned when the requested key is not found in cache.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection is returned when the redis connection fails.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when (de)serialization fails.
	ErrCacheSerialization = errors.New("cache: serialization failed")
)

// Key prefixes.
const (
	PrefixDashboard = "hostel:dashboard:"
)

// DashboardKey returns the cache key of the dashboard for a month ("YYYY-MM").
func DashboardKey(month string) string {
	return PrefixDashboard + month
}

// Store is the subset of cache operations used by the services.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Redis is a Store backed by go-redis with JSON encoded values.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}
	return &Redis{client: client}, nil
}

// Close releases the connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}

func (c *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Redis) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix using SCAN.
func (c *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Noop is used when redis is disabled; every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) error                { return ErrCacheMiss }
func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Noop) DeleteByPrefix(context.Context, string) error                  { return nil }

// New returns a redis Store when enabled, otherwise Noop.
func New(ctx context.Context, cfg config.RedisConfig) (Store, func() error, error) {
	if !cfg.Enabled {
		return Noop{}, func() error { return nil }, nil
	}
	r, err := NewRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}
