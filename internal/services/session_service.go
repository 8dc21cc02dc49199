package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"modeling-service/internal/engine"
	"modeling-service/internal/metrics"
	"modeling-service/internal/models"
	"modeling-service/internal/viewer"
)

// ErrSessionNotFound is returned for operations on unknown or closed sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionService owns the live viewer sessions. Each session gets its own
// renderer and scene; the service only routes commands and tracks lifecycle.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*viewer.Session

	fetcher   *viewer.ModelFetcher
	envSource viewer.EnvironmentSource
	defaults  viewer.Settings
	collector *metrics.Collector
}

// NewSessionService creates a session manager with the given per-session
// defaults. envSource may be nil.
func NewSessionService(defaults viewer.Settings, envSource viewer.EnvironmentSource, collector *metrics.Collector) *SessionService {
	return &SessionService{
		sessions:  make(map[uuid.UUID]*viewer.Session),
		fetcher:   viewer.NewModelFetcher(nil),
		envSource: envSource,
		defaults:  defaults,
		collector: collector,
	}
}

// CreateSession initializes a new viewer session sized to the client
// viewport and returns its ID.
func (s *SessionService) CreateSession(width, height int) (uuid.UUID, error) {
	session := viewer.NewSession(engine.NewHeadlessRenderer(), s.fetcher, s.envSource)
	if err := session.Initialize(width, height, s.defaults); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	s.collector.SessionOpened()
	logrus.Infof("Created viewer session %s (%dx%d)", id, width, height)
	return id, nil
}

func (s *SessionService) get(id uuid.UUID) (*viewer.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// LoadModel swaps the given model data into the session.
func (s *SessionService) LoadModel(id uuid.UUID, data *models.BuildingModelData) error {
	session, err := s.get(id)
	if err != nil {
		return err
	}
	if err := session.LoadModelFromData(data); err != nil {
		s.collector.RecordModelLoad("failure")
		return err
	}
	s.collector.RecordModelLoad("success")
	return nil
}

// LoadModelFromURL fetches a model document and swaps it into the session.
func (s *SessionService) LoadModelFromURL(ctx context.Context, id uuid.UUID, url string) error {
	session, err := s.get(id)
	if err != nil {
		return err
	}
	if err := session.LoadModelFromURL(ctx, url); err != nil {
		s.collector.RecordModelLoad("failure")
		return err
	}
	s.collector.RecordModelLoad("success")
	return nil
}

// Command dispatches a camera or display command to the session.
func (s *SessionService) Command(id uuid.UUID, command string) error {
	session, err := s.get(id)
	if err != nil {
		return err
	}
	s.collector.RecordSessionCommand(command)

	switch command {
	case "zoom-in":
		return session.ZoomIn()
	case "zoom-out":
		return session.ZoomOut()
	case "center":
		return session.CenterCameraOnModel()
	case "wireframe":
		return session.ToggleWireframe()
	case "view-3d":
		return session.SetViewMode(viewer.View3D)
	case "view-floor-plan":
		return session.SetViewMode(viewer.ViewFloorPlan)
	case "view-section":
		return session.SetViewMode(viewer.ViewSection)
	case "view-elevation":
		return session.SetViewMode(viewer.ViewElevation)
	default:
		return errors.Errorf("unknown session command %q", command)
	}
}

// Resize updates the session viewport.
func (s *SessionService) Resize(id uuid.UUID, width, height int) error {
	session, err := s.get(id)
	if err != nil {
		return err
	}
	return session.Resize(width, height)
}

// LoadEnvironment applies a named environment preset to the session.
func (s *SessionService) LoadEnvironment(ctx context.Context, id uuid.UUID, name string) error {
	session, err := s.get(id)
	if err != nil {
		return err
	}
	return session.LoadEnvironment(ctx, name)
}

// Describe reports the session's state and camera snapshot.
func (s *SessionService) Describe(id uuid.UUID) (viewer.SessionState, viewer.CameraState, error) {
	session, err := s.get(id)
	if err != nil {
		return "", viewer.CameraState{}, err
	}
	return session.State(), session.Camera(), nil
}

// CloseSession disposes the session and forgets it. Closing an unknown
// session is not an error; dispose is idempotent end to end.
func (s *SessionService) CloseSession(id uuid.UUID) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return
	}
	session.Dispose()
	s.collector.SessionClosed()
	logrus.Infof("Closed viewer session %s", id)
}

// Shutdown disposes every live session.
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*viewer.Session)
	s.mu.Unlock()

	for id, session := range sessions {
		session.Dispose()
		s.collector.SessionClosed()
		logrus.Debugf("Disposed session %s during shutdown", id)
	}
}
