package caches

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modeling-service/internal/services/cache"
)

type FileSystemCache struct {
	basePath    string
	maxSize     int64
	currentSize int64
	ttl         time.Duration
	mu          sync.RWMutex

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

func NewFileSystemCache(basePath string, maxSizeBytes int64, ttl time.Duration) *FileSystemCache {
	// Ensure directory exists
	os.MkdirAll(basePath, 0755)

	fsc := &FileSystemCache{
		basePath: basePath,
		maxSize:  maxSizeBytes,
		ttl:      ttl,
	}

	fsc.calculateCurrentSize()

	// Start cleanup goroutine
	go fsc.cleanupExpired()

	return fsc
}

func (fsc *FileSystemCache) Name() string {
	return "FILESYSTEM"
}

func (fsc *FileSystemCache) Store(modelID string, data []byte) error {
	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	size := int64(len(data))

	for atomic.LoadInt64(&fsc.currentSize)+size > fsc.maxSize {
		if !fsc.evictOldestFile() {
			return fmt.Errorf("unable to free space for file of size %d", size)
		}
	}

	filePath := fsc.filePath(modelID)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	atomic.AddInt64(&fsc.currentSize, size)
	logrus.Debugf("File cache: stored model %s (%d bytes) at %s", modelID, size, filePath)

	return nil
}

func (fsc *FileSystemCache) Get(modelID string) ([]byte, error) {
	filePath := fsc.filePath(modelID)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		fsc.misses.Add(1)
		return nil, fmt.Errorf("model not found in file cache")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fsc.misses.Add(1)
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	// Update access time for LRU eviction
	os.Chtimes(filePath, time.Now(), time.Now())

	fsc.hits.Add(1)
	return data, nil
}

func (fsc *FileSystemCache) Exists(modelID string) (bool, error) {
	_, err := os.Stat(fsc.filePath(modelID))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (fsc *FileSystemCache) Delete(modelID string) error {
	filePath := fsc.filePath(modelID)

	stat, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		return err
	}
	atomic.AddInt64(&fsc.currentSize, -stat.Size())
	return nil
}

func (fsc *FileSystemCache) Clear() error {
	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	entries, err := os.ReadDir(fsc.basePath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		os.Remove(filepath.Join(fsc.basePath, entry.Name()))
	}
	atomic.StoreInt64(&fsc.currentSize, 0)
	fsc.hits.Store(0)
	fsc.misses.Store(0)

	logrus.Info("File cache: cleared all payloads")
	return nil
}

func (fsc *FileSystemCache) Stats() cache.LayerStats {
	hits := fsc.hits.Load()
	misses := fsc.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	objectCount := 0
	if entries, err := os.ReadDir(fsc.basePath); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				objectCount++
			}
		}
	}

	return cache.LayerStats{
		Name:         "Filesystem",
		Objects:      objectCount,
		SizeBytes:    atomic.LoadInt64(&fsc.currentSize),
		Hits:         hits,
		Misses:       misses,
		HitRate:      hitRate,
		AvgLatencyMs: 2,
	}
}

// filePath maps a model ID to a cache file. Model IDs only contain letters,
// digits, underscores, and dashes; anything else is replaced defensively so
// a malformed ID cannot escape the cache directory.
func (fsc *FileSystemCache) filePath(modelID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, modelID)
	return filepath.Join(fsc.basePath, safe+".json")
}

func (fsc *FileSystemCache) calculateCurrentSize() {
	var total int64
	entries, err := os.ReadDir(fsc.basePath)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil && !entry.IsDir() {
			total += info.Size()
		}
	}
	atomic.StoreInt64(&fsc.currentSize, total)
}

func (fsc *FileSystemCache) evictOldestFile() bool {
	entries, err := os.ReadDir(fsc.basePath)
	if err != nil {
		return false
	}

	var oldestPath string
	var oldestTime time.Time
	var oldestSize int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if oldestPath == "" || info.ModTime().Before(oldestTime) {
			oldestPath = filepath.Join(fsc.basePath, entry.Name())
			oldestTime = info.ModTime()
			oldestSize = info.Size()
		}
	}
	if oldestPath == "" {
		return false
	}
	if err := os.Remove(oldestPath); err != nil {
		return false
	}
	atomic.AddInt64(&fsc.currentSize, -oldestSize)
	return true
}

func (fsc *FileSystemCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		entries, err := os.ReadDir(fsc.basePath)
		if err != nil {
			continue
		}
		now := time.Now()
		removed := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) > fsc.ttl {
				if err := os.Remove(filepath.Join(fsc.basePath, entry.Name())); err == nil {
					atomic.AddInt64(&fsc.currentSize, -info.Size())
					removed++
				}
			}
		}
		if removed > 0 {
			logrus.Debugf("File cache: cleaned up %d expired payloads", removed)
		}
	}
}
