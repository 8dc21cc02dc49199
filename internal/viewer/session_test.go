package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modeling-service/internal/engine"
	"modeling-service/internal/generator"
	"modeling-service/internal/models"
	"modeling-service/internal/scene"
)

func testModel(area float64, floors int) *models.BuildingModelData {
	return generator.GenerateModelFromData(models.PropertyRecord{
		ID:             "prop-test",
		Dimensions:     models.PropertyDimensions{Area: area},
		NumberOfFloors: floors,
	})
}

func newReadySession(t *testing.T) (*Session, *engine.HeadlessRenderer) {
	t.Helper()
	renderer := engine.NewHeadlessRenderer()
	s := NewSession(renderer, nil, nil)
	if err := s.Initialize(800, 600, Settings{FrameInterval: time.Hour}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(s.Dispose)
	return s, renderer
}

func TestInitializeIsIdempotent(t *testing.T) {
	s, _ := newReadySession(t)
	if got := s.State(); got != StateReady {
		t.Fatalf("state after initialize = %s, want %s", got, StateReady)
	}
	if err := s.Initialize(1024, 768, Settings{}); err != nil {
		t.Errorf("second Initialize should be a no-op, got %v", err)
	}
	if got := s.State(); got != StateReady {
		t.Errorf("state after repeated initialize = %s, want %s", got, StateReady)
	}
}

func TestOperationsBeforeInitialize(t *testing.T) {
	s := NewSession(engine.NewHeadlessRenderer(), nil, nil)
	var stateErr *SessionStateError
	if err := s.ZoomIn(); !errors.As(err, &stateErr) {
		t.Errorf("ZoomIn before initialize: got %v, want SessionStateError", err)
	}
	if err := s.LoadModelFromData(testModel(100, 1)); !errors.As(err, &stateErr) {
		t.Errorf("LoadModelFromData before initialize: got %v, want SessionStateError", err)
	}
}

func TestDisposeIsIdempotentAndTerminal(t *testing.T) {
	s, _ := newReadySession(t)
	s.Dispose()
	s.Dispose()
	if got := s.State(); got != StateDisposed {
		t.Fatalf("state after dispose = %s, want %s", got, StateDisposed)
	}

	var stateErr *SessionStateError
	if err := s.ZoomIn(); !errors.As(err, &stateErr) {
		t.Errorf("ZoomIn after dispose: got %v, want SessionStateError", err)
	}
	if err := s.LoadModelFromData(testModel(100, 1)); !errors.As(err, &stateErr) {
		t.Errorf("LoadModelFromData after dispose: got %v, want SessionStateError", err)
	}
	if err := s.SetViewMode(View3D); !errors.As(err, &stateErr) {
		t.Errorf("SetViewMode after dispose: got %v, want SessionStateError", err)
	}
	if err := s.Initialize(800, 600, Settings{}); !errors.As(err, &stateErr) {
		t.Errorf("Initialize after dispose: got %v, want SessionStateError", err)
	}
}

func TestRenderLoopRunsUntilDispose(t *testing.T) {
	renderer := engine.NewHeadlessRenderer()
	s := NewSession(renderer, nil, nil)
	if err := s.Initialize(640, 480, Settings{FrameInterval: 2 * time.Millisecond}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for renderer.FrameCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("render loop produced no frames")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Dispose()
	after := renderer.FrameCount()
	time.Sleep(20 * time.Millisecond)
	if got := renderer.FrameCount(); got != after {
		t.Errorf("frames advanced after dispose: %d -> %d", after, got)
	}
}

func TestCenterCameraOnModelFormula(t *testing.T) {
	s, _ := newReadySession(t)
	data := testModel(144, 2)
	if err := s.LoadModelFromData(data); err != nil {
		t.Fatalf("LoadModelFromData: %v", err)
	}

	box := scene.BuildScene(data).Bounds()
	center := box.Center()
	size := box.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	fov := defaultFOV * math.Pi / 180
	wantZ := center.Z + (maxDim/2)/math.Tan(fov/2)*1.5

	cam := s.Camera()
	if math.Abs(cam.Position.Z-wantZ) > 1e-9 {
		t.Errorf("camera Z = %v, want %v", cam.Position.Z, wantZ)
	}
	if math.Abs(cam.Position.X-center.X) > 1e-9 {
		t.Errorf("camera X = %v, want %v", cam.Position.X, center.X)
	}
	if math.Abs(cam.Position.Y-(center.Y+size.Y/4)) > 1e-9 {
		t.Errorf("camera Y = %v, want %v", cam.Position.Y, center.Y+size.Y/4)
	}
	if cam.Target != center {
		t.Errorf("camera target = %v, want bounds center %v", cam.Target, center)
	}
}

func TestCenterCameraIsDeterministic(t *testing.T) {
	data := testModel(100, 3)

	var snapshots [2]CameraState
	for i := range snapshots {
		s, _ := newReadySession(t)
		if err := s.LoadModelFromData(data); err != nil {
			t.Fatalf("LoadModelFromData: %v", err)
		}
		snapshots[i] = s.Camera()
	}
	if snapshots[0] != snapshots[1] {
		t.Errorf("framing differs across identical sessions: %+v vs %+v", snapshots[0], snapshots[1])
	}
}

// Zoom is a free translation along the view direction with no distance
// clamp, so many repeated steps may pass through and beyond the model. The
// only hard requirement is that the camera never becomes non-finite.
func TestRepeatedZoomStaysFinite(t *testing.T) {
	s, _ := newReadySession(t)
	if err := s.LoadModelFromData(testModel(80, 1)); err != nil {
		t.Fatalf("LoadModelFromData: %v", err)
	}
	for i := 0; i < 100; i++ {
		if err := s.ZoomIn(); err != nil {
			t.Fatalf("ZoomIn #%d: %v", i, err)
		}
	}
	if pos := s.Camera().Position; !pos.IsFinite() {
		t.Errorf("camera position is not finite after 100 zooms: %+v", pos)
	}
	for i := 0; i < 100; i++ {
		if err := s.ZoomOut(); err != nil {
			t.Fatalf("ZoomOut #%d: %v", i, err)
		}
	}
	if pos := s.Camera().Position; !pos.IsFinite() {
		t.Errorf("camera position is not finite after zooming back: %+v", pos)
	}
}

func TestZoomMovesAlongViewDirection(t *testing.T) {
	s, _ := newReadySession(t)
	before := s.Camera()
	if err := s.ZoomIn(); err != nil {
		t.Fatalf("ZoomIn: %v", err)
	}
	after := s.Camera()

	moved := after.Position.Sub(before.Position)
	dir := before.Target.Sub(before.Position).Normalize()
	want := dir.Scale(zoomStep)
	if math.Abs(moved.X-want.X) > 1e-9 || math.Abs(moved.Y-want.Y) > 1e-9 || math.Abs(moved.Z-want.Z) > 1e-9 {
		t.Errorf("zoom displacement = %+v, want %+v", moved, want)
	}
}

func TestSetViewModePresets(t *testing.T) {
	tests := []struct {
		mode ViewMode
		pos  engine.Vector3
	}{
		{View3D, engine.Vector3{X: 10, Y: 10, Z: 10}},
		{ViewFloorPlan, engine.Vector3{Y: 50}},
		{ViewSection, engine.Vector3{X: 50, Y: 5}},
		{ViewElevation, engine.Vector3{Y: 5, Z: 50}},
	}
	s, _ := newReadySession(t)
	if err := s.LoadModelFromData(testModel(500, 4)); err != nil {
		t.Fatalf("LoadModelFromData: %v", err)
	}
	for _, tt := range tests {
		if err := s.SetViewMode(tt.mode); err != nil {
			t.Fatalf("SetViewMode(%s): %v", tt.mode, err)
		}
		// Presets are fixed viewpoints; model size must not affect them.
		if got := s.Camera().Position; got != tt.pos {
			t.Errorf("SetViewMode(%s) position = %+v, want %+v", tt.mode, got, tt.pos)
		}
	}
	if err := s.SetViewMode("isometric"); err == nil {
		t.Error("unknown view mode should be rejected")
	}
}

func TestToggleWireframe(t *testing.T) {
	s, _ := newReadySession(t)
	if err := s.LoadModelFromData(testModel(120, 1)); err != nil {
		t.Fatalf("LoadModelFromData: %v", err)
	}
	if err := s.ToggleWireframe(); err != nil {
		t.Fatalf("ToggleWireframe: %v", err)
	}

	meshes, wireframed := 0, 0
	s.mu.Lock()
	s.modelGroup.Traverse(func(n *engine.Node) {
		if n.Material != nil {
			meshes++
			if n.Material.Wireframe {
				wireframed++
			}
		}
	})
	s.mu.Unlock()
	if meshes == 0 {
		t.Fatal("model produced no meshes")
	}
	if wireframed != meshes {
		t.Errorf("wireframe applied to %d of %d meshes", wireframed, meshes)
	}

	if err := s.ToggleWireframe(); err != nil {
		t.Fatalf("ToggleWireframe: %v", err)
	}
	s.mu.Lock()
	s.modelGroup.Traverse(func(n *engine.Node) {
		if n.Material != nil && n.Material.Wireframe {
			t.Error("wireframe still set after second toggle")
		}
	})
	s.mu.Unlock()
}

func TestLoadModelFromURL(t *testing.T) {
	data := testModel(200, 2)
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}))
	defer server.Close()

	s, _ := newReadySession(t)
	if err := s.LoadModelFromURL(context.Background(), server.URL); err != nil {
		t.Fatalf("LoadModelFromURL: %v", err)
	}
	if got := s.State(); got != StateReady {
		t.Errorf("state after load = %s, want %s", got, StateReady)
	}
	if m := s.Model(); m == nil || m.ID != data.ID {
		t.Errorf("loaded model = %+v, want ID %s", m, data.ID)
	}
}

// A failed load must leave the previous model visible and the session ready
// for a retry.
func TestLoadFailureKeepsPreviousModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	s, _ := newReadySession(t)
	first := testModel(100, 1)
	if err := s.LoadModelFromData(first); err != nil {
		t.Fatalf("LoadModelFromData: %v", err)
	}

	err := s.LoadModelFromURL(context.Background(), server.URL+"/missing.json")
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %v, want ModelLoadError", err)
	}
	if got := s.State(); got != StateReady {
		t.Errorf("state after failed load = %s, want %s", got, StateReady)
	}
	if m := s.Model(); m == nil || m.ID != first.ID {
		t.Errorf("previous model lost after failed load: %+v", m)
	}
	if err := s.ZoomIn(); err != nil {
		t.Errorf("session not usable after failed load: %v", err)
	}
}

// Two overlapping loads resolve last-write-wins: the stale completion must
// not overwrite the newer model.
func TestOverlappingLoadsLastWriteWins(t *testing.T) {
	release := make(chan struct{})
	slow := testModel(100, 1)
	slowPayload, _ := json.Marshal(slow)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write(slowPayload)
	}))
	defer server.Close()

	s, _ := newReadySession(t)

	done := make(chan error, 1)
	go func() {
		done <- s.LoadModelFromURL(context.Background(), server.URL)
	}()

	// Wait for the URL load to take ownership of the state.
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateLoading {
		if time.Now().After(deadline) {
			t.Fatal("session never entered loading state")
		}
		time.Sleep(time.Millisecond)
	}

	newer := testModel(300, 3)
	if err := s.LoadModelFromData(newer); err != nil {
		t.Fatalf("superseding load: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded load should resolve silently, got %v", err)
	}
	if m := s.Model(); m == nil || m.ID != newer.ID {
		t.Errorf("stale completion overwrote newer model: %+v", m)
	}
	if got := s.State(); got != StateReady {
		t.Errorf("state after overlapping loads = %s, want %s", got, StateReady)
	}
}

// Disposing mid-load cancels the load's effect without surfacing an error.
func TestDisposeMidLoad(t *testing.T) {
	release := make(chan struct{})
	payload, _ := json.Marshal(testModel(100, 1))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(payload)
	}))
	defer server.Close()

	s, _ := newReadySession(t)
	done := make(chan error, 1)
	go func() {
		done <- s.LoadModelFromURL(context.Background(), server.URL)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateLoading {
		if time.Now().After(deadline) {
			t.Fatal("session never entered loading state")
		}
		time.Sleep(time.Millisecond)
	}
	s.Dispose()
	close(release)

	if err := <-done; err != nil {
		t.Errorf("load completing after dispose should be silent, got %v", err)
	}
	if m := s.Model(); m != nil {
		t.Errorf("disposed session retained model %+v", m)
	}
}

type fakeEnvSource struct {
	preset *EnvironmentPreset
	err    error
}

func (f *fakeEnvSource) LoadPreset(ctx context.Context, name string) (*EnvironmentPreset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.preset, nil
}

func TestLoadEnvironmentAppliesPreset(t *testing.T) {
	source := &fakeEnvSource{preset: &EnvironmentPreset{
		Name:                 "sunset",
		Background:           0xffaa66,
		AmbientIntensity:     0.3,
		DirectionalIntensity: 1.2,
	}}
	renderer := engine.NewHeadlessRenderer()
	s := NewSession(renderer, nil, source)
	if err := s.Initialize(800, 600, Settings{FrameInterval: time.Hour}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer s.Dispose()

	if err := s.LoadEnvironment(context.Background(), "sunset"); err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene.Background != 0xffaa66 {
		t.Errorf("background = %#x, want 0xffaa66", s.scene.Background)
	}
	if s.ambient.Intensity != 0.3 {
		t.Errorf("ambient intensity = %v, want 0.3", s.ambient.Intensity)
	}
	if s.directional.Intensity != 1.2 {
		t.Errorf("directional intensity = %v, want 1.2", s.directional.Intensity)
	}
}

func TestLoadEnvironmentFallsBackOnFailure(t *testing.T) {
	source := &fakeEnvSource{err: errors.New("bucket unreachable")}
	renderer := engine.NewHeadlessRenderer()
	s := NewSession(renderer, nil, source)
	if err := s.Initialize(800, 600, Settings{Background: "gradient", FrameInterval: time.Hour}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer s.Dispose()

	if err := s.LoadEnvironment(context.Background(), "forest"); err != nil {
		t.Fatalf("environment failure must be absorbed, got %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene.Background != fallbackBackground {
		t.Errorf("background = %#x, want flat fallback %#x", s.scene.Background, uint32(fallbackBackground))
	}
}

func TestResizeUpdatesAspect(t *testing.T) {
	s, renderer := newReadySession(t)
	if err := s.Resize(400, 200); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	w, h := renderer.Size()
	if w != 400 || h != 200 {
		t.Errorf("renderer size = %dx%d, want 400x200", w, h)
	}
	s.mu.Lock()
	aspect := s.camera.Aspect
	s.mu.Unlock()
	if aspect != 2 {
		t.Errorf("aspect = %v, want 2", aspect)
	}
}
