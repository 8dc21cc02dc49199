package caches

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modeling-service/internal/services/cache"
)

type MemoryCache struct {
	data        sync.Map // map[string][]byte
	metadata    sync.Map // map[string]*memoryCacheEntry
	maxSize     int64
	currentSize int64
	ttl         time.Duration

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

type memoryCacheEntry struct {
	Size        int64
	CreatedAt   time.Time
	LastAccess  time.Time
	AccessCount atomic.Int64
}

func NewMemoryCache(maxSizeBytes int64, ttl time.Duration) *MemoryCache {
	mc := &MemoryCache{
		maxSize: maxSizeBytes,
		ttl:     ttl,
	}

	// Start cleanup goroutine
	go mc.cleanupExpired()

	return mc
}

func (mc *MemoryCache) Name() string {
	return "MEMORY"
}

func (mc *MemoryCache) Store(modelID string, data []byte) error {
	size := int64(len(data))

	// Evict until the payload fits
	for atomic.LoadInt64(&mc.currentSize)+size > mc.maxSize {
		if !mc.evictLRU() {
			return fmt.Errorf("unable to free space for payload of size %d", size)
		}
	}

	mc.data.Store(modelID, data)
	mc.metadata.Store(modelID, &memoryCacheEntry{
		Size:       size,
		CreatedAt:  time.Now(),
		LastAccess: time.Now(),
	})

	atomic.AddInt64(&mc.currentSize, size)
	logrus.Debugf("Memory cache: stored model %s (%d bytes)", modelID, size)

	return nil
}

func (mc *MemoryCache) Get(modelID string) ([]byte, error) {
	if value, ok := mc.data.Load(modelID); ok {
		data := value.([]byte)
		mc.updateAccess(modelID)
		mc.hits.Add(1)
		return data, nil
	}

	mc.misses.Add(1)
	return nil, fmt.Errorf("model not found in memory cache")
}

func (mc *MemoryCache) Exists(modelID string) (bool, error) {
	_, exists := mc.data.Load(modelID)
	return exists, nil
}

func (mc *MemoryCache) Delete(modelID string) error {
	if meta, ok := mc.metadata.LoadAndDelete(modelID); ok {
		entry := meta.(*memoryCacheEntry)
		atomic.AddInt64(&mc.currentSize, -entry.Size)
		mc.data.Delete(modelID)
		logrus.Debugf("Memory cache: deleted model %s (%d bytes)", modelID, entry.Size)
	}

	return nil
}

func (mc *MemoryCache) Clear() error {
	mc.data.Range(func(key, value interface{}) bool {
		mc.data.Delete(key)
		return true
	})
	mc.metadata.Range(func(key, value interface{}) bool {
		mc.metadata.Delete(key)
		return true
	})
	atomic.StoreInt64(&mc.currentSize, 0)
	mc.hits.Store(0)
	mc.misses.Store(0)

	logrus.Info("Memory cache: cleared all payloads")
	return nil
}

func (mc *MemoryCache) Stats() cache.LayerStats {
	hits := mc.hits.Load()
	misses := mc.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	objectCount := 0
	mc.data.Range(func(key, value interface{}) bool {
		objectCount++
		return true
	})

	return cache.LayerStats{
		Name:         "Memory",
		Objects:      objectCount,
		SizeBytes:    atomic.LoadInt64(&mc.currentSize),
		Hits:         hits,
		Misses:       misses,
		HitRate:      hitRate,
		AvgLatencyMs: 0.1,
	}
}

func (mc *MemoryCache) updateAccess(key string) {
	if meta, ok := mc.metadata.Load(key); ok {
		entry := meta.(*memoryCacheEntry)
		entry.LastAccess = time.Now()
		entry.AccessCount.Add(1)
	}
}

func (mc *MemoryCache) evictLRU() bool {
	var oldestKey string
	var oldestTime time.Time

	mc.metadata.Range(func(key, value interface{}) bool {
		entry := value.(*memoryCacheEntry)
		if oldestKey == "" || entry.LastAccess.Before(oldestTime) {
			oldestKey = key.(string)
			oldestTime = entry.LastAccess
		}
		return true
	})

	if oldestKey != "" {
		mc.Delete(oldestKey)
		return true
	}

	return false
}

func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		var expiredKeys []string

		mc.metadata.Range(func(key, value interface{}) bool {
			entry := value.(*memoryCacheEntry)
			if now.Sub(entry.CreatedAt) > mc.ttl {
				expiredKeys = append(expiredKeys, key.(string))
			}
			return true
		})

		for _, key := range expiredKeys {
			mc.Delete(key)
		}

		if len(expiredKeys) > 0 {
			logrus.Debugf("Memory cache: cleaned up %d expired payloads", len(expiredKeys))
		}
	}
}
