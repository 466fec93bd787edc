// Package storage provides the Redis cache for riftscout.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftscout/internal/config"
	"github.com/riftscout/internal/logging"
)

// ErrDisabled is returned by Ping when no Redis server is configured.
var ErrDisabled = errors.New("redis disabled")

// RedisClient wraps go-redis client. A client without a server is valid:
// reads miss and writes are dropped, so callers never special-case it.
type RedisClient struct {
	client  *redis.Client
	enabled bool
	prefix  string
	log     *zap.SugaredLogger
}

// NewRedisClient creates a new Redis client using go-redis.
func NewRedisClient(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) *RedisClient {
	log = logging.OrNop(log)
	disabled := &RedisClient{prefix: cfg.RedisKeyPrefix, log: log}

	if cfg.RedisURL == "" {
		log.Info("redis not configured (REDIS_URL missing), caching disabled")
		return disabled
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warnw("failed to parse REDIS_URL", "error", err)
		return disabled
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis connection failed, caching disabled", "error", err)
		_ = client.Close()
		return disabled
	}

	log.Infow("redis connected", "addr", opt.Addr)
	return &RedisClient{
		client:  client,
		enabled: true,
		prefix:  cfg.RedisKeyPrefix,
		log:     log,
	}
}

// Enabled reports whether a server is attached.
func (r *RedisClient) Enabled() bool {
	return r.enabled
}

// Key namespaces key with the configured prefix.
func (r *RedisClient) Key(key string) string {
	return r.prefix + key
}

// Get retrieves a value from Redis. A missing key returns "" and no error.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if !r.enabled {
		return "", nil
	}
	val, err := r.client.Get(ctx, r.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores a value in Redis. ttl 0 means no expiration.
func (r *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !r.enabled {
		return nil
	}
	return r.client.Set(ctx, r.Key(key), value, ttl).Err()
}

// Delete removes a key from Redis.
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	if !r.enabled {
		return nil
	}
	return r.client.Del(ctx, r.Key(key)).Err()
}

// SetJSON encodes v and stores it at key.
func (r *RedisClient) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !r.enabled {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, string(data), ttl)
}

// Ping checks the server. It returns ErrDisabled when none is configured.
func (r *RedisClient) Ping(ctx context.Context) error {
	if !r.enabled {
		return ErrDisabled
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	if !r.enabled {
		return nil
	}
	return r.client.Close()
}
