package viewer

import (
	"context"
	"encoding/json"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"modeling-service/internal/models"
)

// ModelFetcher retrieves building model documents over HTTP. A single
// injected client is shared by every session so retries and timeouts are
// configured in one place.
type ModelFetcher struct {
	client *resty.Client
}

// NewModelFetcher wraps an injected resty client. Passing nil creates a
// default client.
func NewModelFetcher(client *resty.Client) *ModelFetcher {
	if client == nil {
		client = resty.New()
	}
	return &ModelFetcher{client: client}
}

// FetchModel downloads and parses a building model document. Any transport,
// status, or shape failure is reported as a ModelLoadError.
func (f *ModelFetcher) FetchModel(ctx context.Context, url string) (*models.BuildingModelData, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &ModelLoadError{URL: url, Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &ModelLoadError{URL: url, Err: errors.Errorf("unexpected status %d", resp.StatusCode())}
	}
	return ParseModel(resp.Body(), url)
}

// ParseModel deserializes a model document, failing fast on shape mismatch.
// There is no versioning negotiation: the payload must match the current
// schema.
func ParseModel(payload []byte, url string) (*models.BuildingModelData, error) {
	var model models.BuildingModelData
	if err := json.Unmarshal(payload, &model); err != nil {
		return nil, &ModelLoadError{URL: url, Err: errors.Wrap(err, "invalid model payload")}
	}
	if model.ID == "" || model.Floors == nil {
		return nil, &ModelLoadError{URL: url, Err: errors.New("payload is not a building model document")}
	}
	return &model, nil
}

// EnvironmentPreset carries the ambient background and lighting settings an
// environment provides.
type EnvironmentPreset struct {
	Name                 string  `json:"name"`
	Background           uint32  `json:"background"`
	AmbientIntensity     float64 `json:"ambientIntensity"`
	DirectionalIntensity float64 `json:"directionalIntensity"`
	SkyColor             uint32  `json:"skyColor"`
	GroundColor          uint32  `json:"groundColor"`
}

// EnvironmentSource supplies named environment presets. Implementations may
// fetch from object storage or a remote asset host; failures are absorbed by
// the session, never surfaced.
type EnvironmentSource interface {
	LoadPreset(ctx context.Context, name string) (*EnvironmentPreset, error)
}
