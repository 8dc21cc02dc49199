package caches

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCacheStoreAndGet(t *testing.T) {
	mc := NewMemoryCache(1<<20, time.Hour)

	payload := []byte(`{"id":"model_prop-1_1"}`)
	if err := mc.Store("model_prop-1_1", payload); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := mc.Get("model_prop-1_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %q", got)
	}

	if _, err := mc.Get("missing"); err == nil {
		t.Error("missing key should return an error")
	}

	stats := mc.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.SizeBytes != int64(len(payload)) {
		t.Errorf("size = %d, want %d", stats.SizeBytes, len(payload))
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(100, time.Hour)

	a := make([]byte, 60)
	b := make([]byte, 60)
	if err := mc.Store("a", a); err != nil {
		t.Fatalf("Store a: %v", err)
	}
	// Storing b must evict a to fit
	if err := mc.Store("b", b); err != nil {
		t.Fatalf("Store b: %v", err)
	}

	if exists, _ := mc.Exists("a"); exists {
		t.Error("a should have been evicted")
	}
	if exists, _ := mc.Exists("b"); !exists {
		t.Error("b should be present")
	}
}

func TestMemoryCacheOversizedPayload(t *testing.T) {
	mc := NewMemoryCache(10, time.Hour)
	if err := mc.Store("big", make([]byte, 100)); err == nil {
		t.Error("payload larger than the cache should be rejected")
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	mc := NewMemoryCache(1<<20, time.Hour)
	mc.Store("x", []byte("one"))
	mc.Store("y", []byte("two"))

	if err := mc.Delete("x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if exists, _ := mc.Exists("x"); exists {
		t.Error("x should be gone after delete")
	}

	if err := mc.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats := mc.Stats()
	if stats.Objects != 0 || stats.SizeBytes != 0 {
		t.Errorf("cache not empty after clear: %+v", stats)
	}
}
