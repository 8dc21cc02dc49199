package engine

// Light is implemented by the basic light sources the viewer sets up.
type Light interface {
	lightSource()
}

// AmbientLight illuminates everything uniformly.
type AmbientLight struct {
	Color     uint32
	Intensity float64
}

// DirectionalLight shines from a position toward the origin.
type DirectionalLight struct {
	Color      uint32
	Intensity  float64
	Position   Vector3
	CastShadow bool
}

// HemisphereLight blends a sky and a ground color.
type HemisphereLight struct {
	SkyColor    uint32
	GroundColor uint32
	Intensity   float64
}

func (AmbientLight) lightSource()     {}
func (DirectionalLight) lightSource() {}
func (HemisphereLight) lightSource()  {}

// Scene is the root container a renderer draws: a node tree, the light
// sources, and a background color.
type Scene struct {
	Root       *Node
	Lights     []Light
	Background uint32
}

// NewScene creates an empty scene with a neutral background.
func NewScene() *Scene {
	return &Scene{
		Root:       NewGroup("scene"),
		Background: 0xf5f5f5,
	}
}

// Add attaches a node to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Remove detaches a node from the scene root.
func (s *Scene) Remove(n *Node) {
	s.Root.Remove(n)
}

// AddLight registers a light source.
func (s *Scene) AddLight(l Light) {
	s.Lights = append(s.Lights, l)
}
