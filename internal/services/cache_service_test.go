package services

import (
	"bytes"
	"testing"
	"time"

	"modeling-service/internal/metrics"
	"modeling-service/internal/services/caches"
)

// Prometheus collectors register globally, so the package shares one.
var testCollector = metrics.NewCollector()

func TestCacheServiceWaterfall(t *testing.T) {
	memory := caches.NewMemoryCache(1<<20, time.Hour)
	file := caches.NewFileSystemCache(t.TempDir(), 1<<20, time.Hour)
	cs := NewCacheService(testCollector, memory, file)

	payload := []byte(`{"id":"model_p_1","floors":[]}`)
	cs.Store("model_p_1", payload)

	// Both layers hold the payload after Store
	if exists, _ := memory.Exists("model_p_1"); !exists {
		t.Error("memory layer missing payload after store")
	}
	if exists, _ := file.Exists("model_p_1"); !exists {
		t.Error("file layer missing payload after store")
	}

	got, err := cs.Get("model_p_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %q", got)
	}

	if _, err := cs.Get("unknown"); err == nil {
		t.Error("full miss should return an error")
	}
}

func TestCacheServicePromotesOnSlowLayerHit(t *testing.T) {
	memory := caches.NewMemoryCache(1<<20, time.Hour)
	file := caches.NewFileSystemCache(t.TempDir(), 1<<20, time.Hour)
	cs := NewCacheService(testCollector, memory, file)

	payload := []byte(`{"id":"model_p_2"}`)
	if err := file.Store("model_p_2", payload); err != nil {
		t.Fatalf("seed file layer: %v", err)
	}

	got, err := cs.Get("model_p_2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %q", got)
	}

	// Promotion runs async
	deadline := time.Now().Add(2 * time.Second)
	for {
		if exists, _ := memory.Exists("model_p_2"); exists {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("payload was not promoted to the memory layer")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCacheServiceInvalidate(t *testing.T) {
	memory := caches.NewMemoryCache(1<<20, time.Hour)
	file := caches.NewFileSystemCache(t.TempDir(), 1<<20, time.Hour)
	cs := NewCacheService(testCollector, memory, file)

	cs.Store("model_p_3", []byte("doc"))
	if err := cs.Invalidate("model_p_3"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cs.Get("model_p_3"); err == nil {
		t.Error("payload still served after invalidate")
	}
}

func TestCacheServiceSkipsNilLayers(t *testing.T) {
	memory := caches.NewMemoryCache(1<<20, time.Hour)
	cs := NewCacheService(testCollector, memory, nil)

	if got := len(cs.Statistics()); got != 1 {
		t.Errorf("layer count = %d, want 1", got)
	}
}
