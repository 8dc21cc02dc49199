package cache

// Layer is one tier of the model payload cache. Keys are model IDs; values
// are the serialized model documents served to viewer clients.
type Layer interface {
	Name() string
	Store(modelID string, data []byte) error
	Get(modelID string) ([]byte, error)
	Exists(modelID string) (bool, error)
	Delete(modelID string) error
	Clear() error
	Stats() LayerStats
}

type LayerStats struct {
	Name         string  `json:"name"`
	Objects      int     `json:"objects"`
	SizeBytes    int64   `json:"sizeBytes"`
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hitRate"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}
