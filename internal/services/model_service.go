package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"modeling-service/internal/conversion"
	"modeling-service/internal/extraction"
	"modeling-service/internal/generator"
	"modeling-service/internal/metrics"
	"modeling-service/internal/models"
	"modeling-service/internal/repository"
	"modeling-service/internal/scene"
)

const modelContentType = "application/json"

// ModelService generates building models from property data and manages
// their persisted documents: MinIO holds the JSON payload, Postgres the
// metadata row, and the payload cache fronts both.
type ModelService struct {
	Repo       repository.ModelRepository
	Minio      *minio.Client
	BucketName string
	Cache      *CacheService
	Collector  *metrics.Collector
}

// NewModelService creates a new ModelService with the given repository,
// storage client, and payload cache.
func NewModelService(repo repository.ModelRepository, minioClient *minio.Client, bucketName string, cache *CacheService, collector *metrics.Collector) *ModelService {
	return &ModelService{
		Repo:       repo,
		Minio:      minioClient,
		BucketName: bucketName,
		Cache:      cache,
		Collector:  collector,
	}
}

// GenerateModel builds a model from property data, uploads the document to
// object storage, and records its metadata. Degenerate inputs (zero area,
// missing floor count) still produce a structurally valid model.
func (s *ModelService) GenerateModel(property models.PropertyRecord) (*models.BuildingModelData, *models.ModelRecord, error) {
	start := time.Now()

	data := generator.GenerateModelFromData(property)
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to serialize model")
	}

	record := &models.ModelRecord{
		ID:         uuid.New(),
		ModelID:    data.ID,
		PropertyID: property.ID,
		Version:    data.Version,
		FloorCount: len(data.Floors),
		TotalArea:  property.Dimensions.Area,
		Size:       int64(len(payload)),
	}
	record.StorageKey = record.ID.String() + ".json"

	_, err = s.Minio.PutObject(
		context.Background(),
		s.BucketName,
		record.StorageKey,
		bytes.NewReader(payload),
		record.Size,
		minio.PutObjectOptions{ContentType: modelContentType},
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to upload model to MinIO")
	}

	if err := s.Repo.Create(record); err != nil {
		// Remove the document from storage to avoid an orphan file
		s.Minio.RemoveObject(context.Background(), s.BucketName, record.StorageKey, minio.RemoveObjectOptions{})
		return nil, nil, errors.Wrap(err, "failed to save model metadata")
	}

	s.Cache.Store(data.ID, payload)
	s.Collector.RecordGeneration(time.Since(start))
	logrus.Infof("Generated model %s for property %s (%d floors, %d bytes)",
		data.ID, property.ID, len(data.Floors), len(payload))

	return data, record, nil
}

// GetModelPayload returns the serialized model document, trying the cache
// layers before falling back to object storage. Storage hits repopulate the
// cache.
func (s *ModelService) GetModelPayload(modelID string) ([]byte, error) {
	if data, err := s.Cache.Get(modelID); err == nil {
		return data, nil
	}

	record, err := s.Repo.GetByModelID(modelID)
	if err != nil {
		return nil, err
	}

	object, err := s.Minio.GetObject(context.Background(), s.BucketName, record.StorageKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "unable to retrieve model document")
	}
	defer object.Close()

	payload, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model document")
	}

	s.Cache.Store(modelID, payload)
	return payload, nil
}

// GetModelData returns the parsed model document.
func (s *ModelService) GetModelData(modelID string) (*models.BuildingModelData, error) {
	payload, err := s.GetModelPayload(modelID)
	if err != nil {
		return nil, err
	}
	var data models.BuildingModelData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, errors.Wrap(err, "stored model document is corrupt")
	}
	return &data, nil
}

// GetRecord retrieves a model's metadata by record ID.
func (s *ModelService) GetRecord(id uuid.UUID) (*models.ModelRecord, error) {
	return s.Repo.GetByID(id)
}

// ListModels returns all stored model metadata.
func (s *ModelService) ListModels() ([]models.ModelRecord, error) {
	return s.Repo.List()
}

// ListModelsByProperty returns all model records generated for a property.
func (s *ModelService) ListModelsByProperty(propertyID string) ([]models.ModelRecord, error) {
	return s.Repo.ListByPropertyID(propertyID)
}

// DeleteModel removes a model's document, cache entries, and metadata.
func (s *ModelService) DeleteModel(id uuid.UUID) error {
	record, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	_ = s.Minio.RemoveObject(context.Background(), s.BucketName, record.StorageKey, minio.RemoveObjectOptions{})
	_ = s.Cache.Invalidate(record.ModelID)
	return s.Repo.Delete(id)
}

// ExportOBJ renders the model document into Wavefront OBJ and MTL text.
func (s *ModelService) ExportOBJ(modelID string) ([]byte, []byte, error) {
	data, err := s.GetModelData(modelID)
	if err != nil {
		return nil, nil, err
	}
	root := scene.BuildScene(data)
	return conversion.ExportOBJ(root, modelID+".mtl")
}

// ImportModelArchive ingests an uploaded archive containing a model JSON
// document, validates it, and stores it like a freshly generated model.
func (s *ModelService) ImportModelArchive(fileHeader *multipart.FileHeader) (*models.ModelRecord, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".zip" && ext != ".tar" && ext != ".gz" {
		return nil, errors.Errorf("unsupported archive format: %s", ext)
	}

	srcFile, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "could not open uploaded archive")
	}
	defer srcFile.Close()

	tempArchive, err := os.CreateTemp(os.TempDir(), "import-*"+ext)
	if err != nil {
		return nil, errors.Wrap(err, "could not create temporary file for archive")
	}
	tempArchivePath := tempArchive.Name()
	_, err = io.Copy(tempArchive, srcFile)
	tempArchive.Close()
	if err != nil {
		os.Remove(tempArchivePath)
		return nil, errors.Wrap(err, "failed to write uploaded archive")
	}

	files, destDir, err := extraction.ExtractArchive(tempArchivePath)
	os.Remove(tempArchivePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract archive")
	}
	defer os.RemoveAll(destDir)

	var documentPath string
	for _, path := range files {
		name := filepath.Base(path)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "._") {
			continue
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if documentPath != "" {
				return nil, errors.New("multiple model documents found in archive")
			}
			documentPath = path
		}
	}
	if documentPath == "" {
		return nil, errors.New("no model document found in archive")
	}

	payload, err := os.ReadFile(documentPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model document")
	}
	var data models.BuildingModelData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, errors.Wrap(err, "archive does not contain a valid model document")
	}
	if data.ID == "" || data.Floors == nil {
		return nil, errors.New("model document is missing required fields")
	}

	record := &models.ModelRecord{
		ID:         uuid.New(),
		ModelID:    data.ID,
		PropertyID: data.PropertyID,
		Version:    data.Version,
		FloorCount: len(data.Floors),
		Size:       int64(len(payload)),
	}
	for _, floor := range data.Floors {
		record.TotalArea += floor.Area
	}
	record.StorageKey = record.ID.String() + ".json"

	_, err = s.Minio.PutObject(
		context.Background(),
		s.BucketName,
		record.StorageKey,
		bytes.NewReader(payload),
		record.Size,
		minio.PutObjectOptions{ContentType: modelContentType},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload model to MinIO")
	}

	if err := s.Repo.Create(record); err != nil {
		s.Minio.RemoveObject(context.Background(), s.BucketName, record.StorageKey, minio.RemoveObjectOptions{})
		return nil, errors.Wrap(err, "failed to save model metadata")
	}

	s.Cache.Store(data.ID, payload)
	logrus.Infof("Imported model %s from archive %s", data.ID, fileHeader.Filename)
	return record, nil
}
