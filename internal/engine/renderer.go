package engine

import "sync/atomic"

// Renderer is the narrow surface the viewer requires from the low-level
// rendering layer: a sized render target and a per-frame draw call.
// Rasterization, shading, and buffer management are behind this interface.
type Renderer interface {
	SetSize(width, height int)
	Render(scene *Scene, camera *PerspectiveCamera)
	Dispose()
}

// HeadlessRenderer counts frames without drawing anything. It backs
// server-side sessions and tests.
type HeadlessRenderer struct {
	width    int
	height   int
	frames   atomic.Int64
	disposed atomic.Bool
}

// NewHeadlessRenderer returns a renderer with no output target.
func NewHeadlessRenderer() *HeadlessRenderer {
	return &HeadlessRenderer{}
}

func (r *HeadlessRenderer) SetSize(width, height int) {
	r.width = width
	r.height = height
}

func (r *HeadlessRenderer) Render(scene *Scene, camera *PerspectiveCamera) {
	if r.disposed.Load() {
		return
	}
	r.frames.Add(1)
}

func (r *HeadlessRenderer) Dispose() {
	r.disposed.Store(true)
}

// FrameCount returns the number of frames rendered so far.
func (r *HeadlessRenderer) FrameCount() int64 {
	return r.frames.Load()
}

// Size returns the current render target dimensions.
func (r *HeadlessRenderer) Size() (int, int) {
	return r.width, r.height
}
