package viewer

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"modeling-service/internal/engine"
	"modeling-service/internal/models"
	"modeling-service/internal/scene"
)

const (
	defaultFOV         = 45.0
	zoomStep           = 1.0
	fallbackBackground = 0xf5f5f5
	defaultFrameRate   = 60
)

// Settings configures a session at initialization time. Unrecognized values
// fall back to the documented defaults rather than failing.
type Settings struct {
	Quality       string        `json:"quality"`  // low | medium | high
	Shadows       bool          `json:"shadows"`
	Lighting      string        `json:"lighting"`   // basic | physical | studio
	Background    string        `json:"background"` // solid | gradient | environment
	FrameInterval time.Duration `json:"-"`
}

// ViewMode is a canonical camera preset independent of model size.
type ViewMode string

const (
	View3D        ViewMode = "3d"
	ViewFloorPlan ViewMode = "floor-plan"
	ViewSection   ViewMode = "section"
	ViewElevation ViewMode = "elevation"
)

type viewPreset struct {
	position engine.Vector3
	target   engine.Vector3
}

var viewPresets = map[ViewMode]viewPreset{
	View3D:        {position: engine.Vector3{X: 10, Y: 10, Z: 10}},
	ViewFloorPlan: {position: engine.Vector3{Y: 50}},                               // top-down
	ViewSection:   {position: engine.Vector3{X: 50, Y: 5}, target: engine.Vector3{Y: 5}}, // side
	ViewElevation: {position: engine.Vector3{Y: 5, Z: 50}, target: engine.Vector3{Y: 5}}, // front
}

// CameraState is a read-only snapshot of the session camera.
type CameraState struct {
	Position engine.Vector3 `json:"position"`
	Target   engine.Vector3 `json:"target"`
	FOV      float64        `json:"fov"`
}

// Session owns one rendering context: scene, camera, controls, and the
// per-frame render loop. All resources are exclusive to the session; nothing
// is shared across sessions. The displayed model data is held as a
// non-owning read reference and never mutated.
type Session struct {
	mu sync.Mutex

	state       SessionState
	initialized bool

	scene    *engine.Scene
	camera   *engine.PerspectiveCamera
	controls *engine.OrbitControls
	renderer engine.Renderer

	ambient     *engine.AmbientLight
	directional *engine.DirectionalLight

	modelGroup *engine.Node
	model      *models.BuildingModelData
	wireframe  bool

	fetcher   *ModelFetcher
	envSource EnvironmentSource

	// loadSeq orders model loads: a completion whose sequence number is no
	// longer current is stale and must not stomp a newer model.
	loadSeq int64

	samples    int
	loopCancel context.CancelFunc
	loopDone   chan struct{}
}

// NewSession creates an uninitialized session around the injected renderer
// and model fetcher. envSource may be nil, in which case every environment
// load uses the flat fallback background.
func NewSession(renderer engine.Renderer, fetcher *ModelFetcher, envSource EnvironmentSource) *Session {
	if renderer == nil {
		renderer = engine.NewHeadlessRenderer()
	}
	if fetcher == nil {
		fetcher = NewModelFetcher(nil)
	}
	return &Session{
		state:     StateUninitialized,
		renderer:  renderer,
		fetcher:   fetcher,
		envSource: envSource,
	}
}

// Initialize creates the camera, lighting, and controls sized to the given
// viewport dimensions, and starts the render loop. Calling it on an already
// initialized session is a no-op.
func (s *Session) Initialize(width, height int, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if s.state == StateDisposed {
		return &SessionStateError{Op: "initialize", State: s.state}
	}
	s.state = StateInitializing

	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	s.scene = engine.NewScene()
	s.camera = engine.NewPerspectiveCamera(defaultFOV, aspect, 0.1, 1000)
	s.camera.Position = engine.Vector3{Y: 5, Z: 10}
	s.camera.LookAt(engine.Vector3{})
	s.controls = engine.NewOrbitControls(s.camera)

	s.applySettingsLocked(settings)
	s.renderer.SetSize(width, height)

	RegisterPresentation()

	interval := settings.FrameInterval
	if interval <= 0 {
		interval = time.Second / defaultFrameRate
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.loopCancel = cancel
	s.loopDone = make(chan struct{})
	go s.renderLoop(ctx, interval)

	s.initialized = true
	s.state = StateReady
	logrus.Infof("Viewer session initialized: %dx%d, quality=%s, lighting=%s", width, height, settings.Quality, settings.Lighting)
	return nil
}

func (s *Session) applySettingsLocked(settings Settings) {
	switch settings.Quality {
	case "low":
		s.samples = 1
	case "high":
		s.samples = 4
	default:
		s.samples = 2
	}

	s.ambient = &engine.AmbientLight{Color: 0xffffff, Intensity: 0.6}
	s.directional = &engine.DirectionalLight{
		Color:      0xffffff,
		Intensity:  0.8,
		Position:   engine.Vector3{X: 10, Y: 20, Z: 10},
		CastShadow: settings.Shadows,
	}
	s.scene.AddLight(s.ambient)
	s.scene.AddLight(s.directional)
	switch settings.Lighting {
	case "physical":
		s.scene.AddLight(&engine.HemisphereLight{SkyColor: 0xbde0fe, GroundColor: 0x6b705c, Intensity: 0.5})
	case "studio":
		s.scene.AddLight(&engine.DirectionalLight{
			Color:     0xffffff,
			Intensity: 0.4,
			Position:  engine.Vector3{X: -10, Y: 15, Z: -10},
		})
	}

	switch settings.Background {
	case "gradient":
		s.scene.Background = 0xdce6f1
	case "environment":
		// Left neutral until LoadEnvironment swaps in a preset.
		s.scene.Background = fallbackBackground
	default:
		s.scene.Background = fallbackBackground
	}
}

// renderLoop is the cooperative per-frame callback. It runs until dispose
// cancels the context; loads in flight do not pause it, so the previous
// model stays visible until the swap.
func (s *Session) renderLoop(ctx context.Context, interval time.Duration) {
	defer close(s.loopDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != StateDisposed && s.scene != nil {
				s.controls.Update()
				s.renderer.Render(s.scene, s.camera)
			}
			s.mu.Unlock()
		}
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Model returns the currently displayed model data, if any.
func (s *Session) Model() *models.BuildingModelData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Camera returns a snapshot of the camera for inspection.
func (s *Session) Camera() CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.camera == nil {
		return CameraState{}
	}
	return CameraState{Position: s.camera.Position, Target: s.camera.Target(), FOV: s.camera.FOV}
}

func (s *Session) canLoadLocked() bool {
	return s.state == StateReady || s.state == StateLoading || s.state == StateError
}

// LoadModelFromData replaces the displayed model with one built from the
// given data. The swap (remove old group, add new group, recenter) is a
// single synchronous step.
func (s *Session) LoadModelFromData(data *models.BuildingModelData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canLoadLocked() {
		return &SessionStateError{Op: "loadModel", State: s.state}
	}
	if data == nil || data.ID == "" {
		return &ModelLoadError{Err: errors.New("empty model data")}
	}
	// Bumping the sequence supersedes any URL load still in flight.
	s.loadSeq++
	s.swapModelLocked(data)
	s.state = StateReady
	return nil
}

// LoadModelFromURL fetches a model document and swaps it in. The render loop
// keeps running during the fetch. A later load supersedes this one
// (last-write-wins); a disposed session ignores the completion entirely.
func (s *Session) LoadModelFromURL(ctx context.Context, url string) error {
	s.mu.Lock()
	if !s.canLoadLocked() {
		s.mu.Unlock()
		return &SessionStateError{Op: "loadModel", State: s.state}
	}
	s.state = StateLoading
	s.loadSeq++
	seq := s.loadSeq
	fetcher := s.fetcher
	s.mu.Unlock()

	data, err := fetcher.FetchModel(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		// dispose() cancels the effect of in-flight loads.
		return nil
	}
	if seq != s.loadSeq {
		logrus.Debugf("Ignoring stale model load completion for %s", url)
		return nil
	}
	if err != nil {
		// The previous model, if any, stays visible; the session remains
		// usable for a retry.
		s.state = StateReady
		logrus.Warnf("Model load failed: %v", err)
		return err
	}
	s.swapModelLocked(data)
	s.state = StateReady
	logrus.Infof("Loaded model %s (%d floors)", data.ID, len(data.Floors))
	return nil
}

func (s *Session) swapModelLocked(data *models.BuildingModelData) {
	if s.modelGroup != nil {
		s.scene.Remove(s.modelGroup)
	}
	group := scene.BuildScene(data)
	s.scene.Add(group)
	s.modelGroup = group
	s.model = data
	s.wireframe = false
	s.centerCameraLocked()
}

// CenterCameraOnModel frames the current model: camera distance derives from
// the bounding box and the vertical field of view, with a fixed 1.5 margin
// so the model clears the viewport edges. Deterministic for a given model
// and FOV.
func (s *Session) CenterCameraOnModel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.state == StateDisposed {
		return &SessionStateError{Op: "centerCameraOnModel", State: s.state}
	}
	s.centerCameraLocked()
	return nil
}

func (s *Session) centerCameraLocked() {
	if s.modelGroup == nil {
		return
	}
	box := s.modelGroup.Bounds()
	if box.IsEmpty() {
		logrus.Warn("Model group has no renderable geometry; camera left unchanged")
		return
	}
	center := box.Center()
	size := box.Size()
	maxDim := size.X
	if size.Y > maxDim {
		maxDim = size.Y
	}
	if size.Z > maxDim {
		maxDim = size.Z
	}
	fov := s.camera.FOV * math.Pi / 180
	cameraZ := (maxDim / 2) / math.Tan(fov/2) * 1.5

	s.camera.Position = engine.Vector3{
		X: center.X,
		Y: center.Y + size.Y/4,
		Z: center.Z + cameraZ,
	}
	s.camera.LookAt(center)
	s.controls.Target = center
}

// ZoomIn translates the camera one step along its view direction. No
// re-centering and no clamping: repeated calls can pass through the model.
func (s *Session) ZoomIn() error {
	return s.zoom(zoomStep)
}

// ZoomOut translates the camera one step against its view direction.
func (s *Session) ZoomOut() error {
	return s.zoom(-zoomStep)
}

func (s *Session) zoom(step float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.state == StateDisposed {
		return &SessionStateError{Op: "zoom", State: s.state}
	}
	dir := s.camera.Direction()
	if dir.Length() == 0 {
		return nil
	}
	s.camera.Position = s.camera.Position.Add(dir.Scale(step))
	return nil
}

// SetViewMode repositions the camera to a fixed canonical viewpoint. Presets
// do not adapt to model bounds the way CenterCameraOnModel does.
func (s *Session) SetViewMode(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.state == StateDisposed {
		return &SessionStateError{Op: "setViewMode", State: s.state}
	}
	preset, ok := viewPresets[mode]
	if !ok {
		return errors.Errorf("unknown view mode %q", mode)
	}
	s.camera.Position = preset.position
	s.camera.LookAt(preset.target)
	s.controls.Target = preset.target
	return nil
}

// ToggleWireframe flips the wireframe flag on every material in the current
// model group. Purely visual; no geometry changes.
func (s *Session) ToggleWireframe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.state == StateDisposed {
		return &SessionStateError{Op: "toggleWireframe", State: s.state}
	}
	if s.modelGroup == nil {
		return nil
	}
	s.wireframe = !s.wireframe
	s.modelGroup.Traverse(func(n *engine.Node) {
		if n.Material != nil {
			n.Material.Wireframe = s.wireframe
		}
	})
	return nil
}

// Resize updates the camera aspect ratio and render target size. The session
// does not watch the container itself; the host binding calls this on every
// container size change.
func (s *Session) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.state == StateDisposed {
		return &SessionStateError{Op: "resize", State: s.state}
	}
	if height > 0 {
		s.camera.SetAspect(float64(width) / float64(height))
	}
	s.renderer.SetSize(width, height)
	return nil
}

// LoadEnvironment applies a named environment preset. A missing source or a
// failed fetch degrades silently to a flat neutral background; the session
// never fails because of an environment.
func (s *Session) LoadEnvironment(ctx context.Context, name string) error {
	s.mu.Lock()
	if !s.initialized || s.state == StateDisposed {
		s.mu.Unlock()
		return &SessionStateError{Op: "loadEnvironment", State: s.state}
	}
	source := s.envSource
	s.mu.Unlock()

	var preset *EnvironmentPreset
	if source != nil {
		var err error
		preset, err = source.LoadPreset(ctx, name)
		if err != nil {
			logrus.Warnf("%v; falling back to flat background", &EnvironmentLoadError{Preset: name, Err: err})
			preset = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed || s.scene == nil {
		return nil
	}
	if preset == nil {
		s.scene.Background = fallbackBackground
		return nil
	}
	s.scene.Background = preset.Background
	if s.ambient != nil && preset.AmbientIntensity > 0 {
		s.ambient.Intensity = preset.AmbientIntensity
	}
	if s.directional != nil && preset.DirectionalIntensity > 0 {
		s.directional.Intensity = preset.DirectionalIntensity
	}
	return nil
}

// Dispose stops the render loop, releases engine resources, and nulls all
// internal references. Safe to call multiple times; after it only a fresh
// session is usable.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return
	}
	s.state = StateDisposed
	cancel := s.loopCancel
	done := s.loopDone
	renderer := s.renderer

	s.scene = nil
	s.camera = nil
	s.controls = nil
	s.modelGroup = nil
	s.model = nil
	s.ambient = nil
	s.directional = nil
	s.loopCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if renderer != nil {
		renderer.Dispose()
	}
	logrus.Info("Viewer session disposed")
}
