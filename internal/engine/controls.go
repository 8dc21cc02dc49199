package engine

// OrbitControls keeps an orbit target in sync with a camera. The actual
// pointer/touch input handling lives in the host environment; the core only
// needs the target bookkeeping.
type OrbitControls struct {
	Target        Vector3
	Enabled       bool
	DampingFactor float64

	camera *PerspectiveCamera
}

// NewOrbitControls binds controls to a camera.
func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Enabled:       true,
		DampingFactor: 0.05,
		camera:        camera,
	}
}

// Update re-points the camera at the orbit target. Called once per frame.
func (o *OrbitControls) Update() {
	if o.Enabled && o.camera != nil {
		o.camera.LookAt(o.Target)
	}
}
