package caches

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modeling-service/internal/services/cache"
	"modeling-service/internal/storage"
)

type RedisCache struct {
	client *storage.RedisClient
	ttl    time.Duration

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(client *storage.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (rc *RedisCache) Name() string {
	return "REDIS"
}

func redisKey(modelID string) string {
	return fmt.Sprintf("model:%s", modelID)
}

func (rc *RedisCache) Store(modelID string, data []byte) error {
	if err := rc.client.SetBytes(redisKey(modelID), data, rc.ttl); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	logrus.Debugf("Redis cache: stored model %s (%d bytes)", modelID, len(data))
	return nil
}

func (rc *RedisCache) Get(modelID string) ([]byte, error) {
	data, err := rc.client.GetBytes(redisKey(modelID))
	if err != nil {
		rc.misses.Add(1)
		return nil, fmt.Errorf("redis error: %w", err)
	}

	if data == nil {
		rc.misses.Add(1)
		return nil, fmt.Errorf("model not found in Redis cache")
	}

	rc.hits.Add(1)
	return data, nil
}

func (rc *RedisCache) Exists(modelID string) (bool, error) {
	exists, err := rc.client.Exists(redisKey(modelID))
	return exists > 0, err
}

func (rc *RedisCache) Delete(modelID string) error {
	return rc.client.Delete(redisKey(modelID))
}

func (rc *RedisCache) Clear() error {
	keys, err := rc.client.Keys("model:*")
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		err = rc.client.Delete(keys...)
		if err != nil {
			return err
		}
	}

	rc.hits.Store(0)
	rc.misses.Store(0)

	logrus.Infof("Redis cache: cleared %d payloads", len(keys))
	return nil
}

func (rc *RedisCache) Stats() cache.LayerStats {
	hits := rc.hits.Load()
	misses := rc.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	keys, _ := rc.client.Keys("model:*")

	return cache.LayerStats{
		Name:         "Redis",
		Objects:      len(keys),
		Hits:         hits,
		Misses:       misses,
		HitRate:      hitRate,
		AvgLatencyMs: 15,
	}
}
