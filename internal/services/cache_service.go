package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"modeling-service/internal/metrics"
	"modeling-service/internal/services/cache"
)

// CacheService layers the model payload caches fastest-first and promotes
// payloads toward the faster layers on hit.
type CacheService struct {
	layers    []cache.Layer
	collector *metrics.Collector
}

// NewCacheService builds the waterfall from the given layers in lookup
// order. Nil layers (an unconfigured Redis, typically) are skipped.
func NewCacheService(collector *metrics.Collector, layers ...cache.Layer) *CacheService {
	cs := &CacheService{collector: collector}
	for _, l := range layers {
		if l != nil {
			cs.layers = append(cs.layers, l)
		}
	}
	return cs
}

// Get walks the layers fastest-first. On a hit in a slower layer the payload
// is promoted asynchronously to every faster layer.
func (cs *CacheService) Get(modelID string) ([]byte, error) {
	for i, layer := range cs.layers {
		data, err := layer.Get(modelID)
		if err != nil || data == nil {
			cs.collector.RecordCacheMiss(layer.Name())
			continue
		}
		cs.collector.RecordCacheHit(layer.Name())
		logrus.Debugf("Cache hit: %s layer for model %s (%d bytes)", layer.Name(), modelID, len(data))

		if i > 0 {
			go cs.promote(modelID, data, i)
		}
		return data, nil
	}
	return nil, fmt.Errorf("model %s not found in any cache layer", modelID)
}

// Store writes the payload to every layer. A failing layer only logs; the
// cache is an optimization, not a source of truth.
func (cs *CacheService) Store(modelID string, data []byte) {
	for _, layer := range cs.layers {
		if err := layer.Store(modelID, data); err != nil {
			logrus.Warnf("Failed to store model %s in %s cache: %v", modelID, layer.Name(), err)
		}
	}
}

// Invalidate removes the payload from all layers.
func (cs *CacheService) Invalidate(modelID string) error {
	var firstErr error
	for _, layer := range cs.layers {
		if err := layer.Delete(modelID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Clear empties every layer.
func (cs *CacheService) Clear() error {
	var firstErr error
	for _, layer := range cs.layers {
		if err := layer.Clear(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Statistics reports per-layer hit and size counters.
func (cs *CacheService) Statistics() []cache.LayerStats {
	stats := make([]cache.LayerStats, 0, len(cs.layers))
	for _, layer := range cs.layers {
		stats = append(stats, layer.Stats())
	}
	return stats
}

func (cs *CacheService) promote(modelID string, data []byte, hitIndex int) {
	for i := 0; i < hitIndex; i++ {
		if err := cs.layers[i].Store(modelID, data); err != nil {
			logrus.Debugf("Promotion to %s failed for model %s: %v", cs.layers[i].Name(), modelID, err)
		}
	}
}
