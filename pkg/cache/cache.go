// Package cache provides an optional Redis-backed result cache. Keys
// combine the dataset fingerprint with the config fingerprint, so any
// change to the inputs or the thresholds is a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/interfaces"
	"github.com/ragstack/rageval/pkg/types"
)

const keyPrefix = "rageval:result:"

// ResultCache caches assembled evaluation results in Redis
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger interfaces.Logger
}

// NewResultCache creates a result cache from configuration. A disabled
// config returns nil without error; callers treat a nil cache as a
// permanent miss.
func NewResultCache(cfg *config.CacheConfig, logger interfaces.Logger) (*ResultCache, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &ResultCache{client: client, ttl: ttl, logger: logger}, nil
}

// Key derives the cache key for one dataset/config pair
func Key(datasetFingerprint, configFingerprint string) string {
	sum := sha256.Sum256([]byte(datasetFingerprint + "|" + configFingerprint))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get looks up a cached result. A miss returns (nil, nil); only
// transport and decode problems surface as errors.
func (c *ResultCache) Get(ctx context.Context, key string) (*types.EvaluationResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheError("cache lookup failed", err)
	}

	var result types.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.NewCacheError("cached result is not decodable", err)
	}
	return &result, nil
}

// Set stores a result under the given key with the configured TTL
func (c *ResultCache) Set(ctx context.Context, key string, result *types.EvaluationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.NewCacheError("failed to encode result", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.NewCacheError("cache write failed", err)
	}
	return nil
}

// Ping verifies the Redis connection
func (c *ResultCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.NewCacheError(fmt.Sprintf("redis unreachable at %s", c.client.Options().Addr), err)
	}
	return nil
}

// Close releases the Redis connection
func (c *ResultCache) Close() error {
	return c.client.Close()
}
