package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"modeling-service/internal/models"
)

// ModelRepository defines persistence operations for generated model metadata.
type ModelRepository interface {
	Create(record *models.ModelRecord) error
	GetByID(id uuid.UUID) (*models.ModelRecord, error)
	GetByModelID(modelID string) (*models.ModelRecord, error)
	ListByPropertyID(propertyID string) ([]models.ModelRecord, error)
	List() ([]models.ModelRecord, error)
	Update(record *models.ModelRecord) error
	Delete(id uuid.UUID) error
}

// ModelRepositoryImpl provides methods to interact with model metadata in the database.
type ModelRepositoryImpl struct {
	db *gorm.DB
}

// NewModelRepository creates a new ModelRepositoryImpl with the provided GORM database connection.
func NewModelRepository(db *gorm.DB) *ModelRepositoryImpl {
	return &ModelRepositoryImpl{db: db}
}

// Create stores a new model metadata record.
func (r *ModelRepositoryImpl) Create(record *models.ModelRecord) error {
	return r.db.Create(record).Error
}

// GetByID retrieves a record by its primary key.
func (r *ModelRepositoryImpl) GetByID(id uuid.UUID) (*models.ModelRecord, error) {
	var record models.ModelRecord
	err := r.db.First(&record, "id = ?", id).Error
	return &record, err
}

// GetByModelID retrieves a record by the generated model identifier.
func (r *ModelRepositoryImpl) GetByModelID(modelID string) (*models.ModelRecord, error) {
	var record models.ModelRecord
	err := r.db.First(&record, "model_id = ?", modelID).Error
	return &record, err
}

// ListByPropertyID retrieves all model records generated for a property,
// newest first.
func (r *ModelRepositoryImpl) ListByPropertyID(propertyID string) ([]models.ModelRecord, error) {
	var records []models.ModelRecord
	err := r.db.Where("property_id = ?", propertyID).Order("created_at DESC").Find(&records).Error
	return records, err
}

// List retrieves all model records.
func (r *ModelRepositoryImpl) List() ([]models.ModelRecord, error) {
	var records []models.ModelRecord
	err := r.db.Find(&records).Error
	return records, err
}

// Update saves changes to an existing record.
func (r *ModelRepositoryImpl) Update(record *models.ModelRecord) error {
	return r.db.Save(record).Error
}

// Delete removes a record by its primary key.
func (r *ModelRepositoryImpl) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ModelRecord{}, "id = ?", id).Error
}
