package engine

// PerspectiveCamera is the single camera type the viewer uses. FOV is the
// vertical field of view in degrees, matching the convention of retained-mode
// scene graph engines; callers converting to radians do so at the point of
// use.
type PerspectiveCamera struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	Position Vector3
	target   Vector3
}

// NewPerspectiveCamera creates a camera with the given vertical field of
// view (degrees) and aspect ratio.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	return &PerspectiveCamera{FOV: fov, Aspect: aspect, Near: near, Far: far}
}

// LookAt points the camera at a world position.
func (c *PerspectiveCamera) LookAt(p Vector3) {
	c.target = p
}

// Target returns the point the camera is looking at.
func (c *PerspectiveCamera) Target() Vector3 {
	return c.target
}

// Direction returns the unit view direction, or the zero vector when the
// camera sits exactly on its target.
func (c *PerspectiveCamera) Direction() Vector3 {
	return c.target.Sub(c.Position).Normalize()
}

// SetAspect updates the aspect ratio after a viewport resize.
func (c *PerspectiveCamera) SetAspect(aspect float64) {
	c.Aspect = aspect
}
