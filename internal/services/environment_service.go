package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"modeling-service/internal/viewer"
)

// EnvironmentService serves named viewer environment presets from object
// storage. Presets live under environments/<name>.json in the model bucket.
type EnvironmentService struct {
	Minio      *minio.Client
	BucketName string
}

// NewEnvironmentService creates an EnvironmentService backed by the given
// storage client.
func NewEnvironmentService(minioClient *minio.Client, bucketName string) *EnvironmentService {
	return &EnvironmentService{Minio: minioClient, BucketName: bucketName}
}

// LoadPreset fetches and parses one environment preset. Sessions treat any
// error here as a signal to fall back to the flat background.
func (s *EnvironmentService) LoadPreset(ctx context.Context, name string) (*viewer.EnvironmentPreset, error) {
	key := "environments/" + name + ".json"
	object, err := s.Minio.GetObject(ctx, s.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve preset %s", name)
	}
	defer object.Close()

	payload, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read preset %s", name)
	}

	var preset viewer.EnvironmentPreset
	if err := json.Unmarshal(payload, &preset); err != nil {
		return nil, errors.Wrapf(err, "preset %s is not valid JSON", name)
	}
	if preset.Name == "" {
		preset.Name = name
	}
	return &preset, nil
}
