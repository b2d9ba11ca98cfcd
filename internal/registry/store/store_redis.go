package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/registry/models"
)

const (
	redisBasicKeyPrefix = "registry:basic:"
	redisFullKeyPrefix  = "registry:full:"
)

// RedisCache persists registry cache entries in Redis with TTL-based
// eviction. Person data is sensitive, so the TTL doubles as a retention
// bound.
type RedisCache struct {
	client   *redis.Client
	cacheTTL time.Duration
}

// NewRedisCache constructs a Redis-backed registry cache.
func NewRedisCache(client *redis.Client, cacheTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, cacheTTL: cacheTTL}
}

func (c *RedisCache) FindBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error) {
	var record models.BasicPersonRecord
	if err := c.find(ctx, redisBasicKeyPrefix+cui.String(), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *RedisCache) SaveBasic(ctx context.Context, record *models.BasicPersonRecord) error {
	return c.save(ctx, redisBasicKeyPrefix+record.CUI, record)
}

func (c *RedisCache) FindFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error) {
	var record models.FullPersonRecord
	if err := c.find(ctx, redisFullKeyPrefix+cui.String(), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *RedisCache) SaveFull(ctx context.Context, record *models.FullPersonRecord) error {
	return c.save(ctx, redisFullKeyPrefix+record.CUI, record)
}

func (c *RedisCache) find(ctx context.Context, key string, target any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("find registry cache: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode registry cache: %w", err)
	}
	return nil
}

func (c *RedisCache) save(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode registry cache: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save registry cache: %w", err)
	}
	return nil
}

var _ CacheStore = (*RedisCache)(nil)
