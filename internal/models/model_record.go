package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelRecord is the metadata row for a persisted building model. The model
// document itself (BuildingModelData as JSON) is stored in object storage
// under StorageKey.
type ModelRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModelID    string    `gorm:"index" json:"model_id"`
	PropertyID string    `gorm:"index" json:"property_id"`
	Version    int       `json:"version"`
	FloorCount int       `json:"floor_count"`
	TotalArea  float64   `json:"total_area"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
