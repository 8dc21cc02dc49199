package engine

// Material describes how a primitive is shaded. Materials are owned by the
// mesh they were created for; ToggleWireframe style operations mutate them
// in place.
type Material struct {
	Name        string
	Color       uint32
	Opacity     float64
	Transparent bool
	Wireframe   bool
}

// BoxGeometry is the only primitive geometry the core needs: an axis-aligned
// box of the given extents centered on the node origin. Width runs along X,
// Height along Y (up), Depth along Z.
type BoxGeometry struct {
	Width  float64
	Height float64
	Depth  float64
}

// Node is a scene-graph node: a group when Geometry is nil, a mesh
// otherwise. Rotation is restricted to the vertical axis, which is all the
// building adapter requires.
type Node struct {
	Name      string
	Position  Vector3
	RotationY float64 // radians about the vertical axis
	Geometry  *BoxGeometry
	Material  *Material

	children []*Node
}

// NewGroup creates an empty transform node.
func NewGroup(name string) *Node {
	return &Node{Name: name}
}

// NewBox creates a mesh node with box geometry and its own material.
func NewBox(name string, width, height, depth float64, material Material) *Node {
	return &Node{
		Name:     name,
		Geometry: &BoxGeometry{Width: width, Height: height, Depth: depth},
		Material: &material,
	}
}

// Add appends a child node.
func (n *Node) Add(child *Node) {
	n.children = append(n.children, child)
}

// Remove detaches a direct child. Removing a node that is not a child is a
// no-op.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// Traverse visits n and every descendant depth-first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Bounds computes the axis-aligned bounding box of the node tree in world
// space, accounting for each node's position and vertical rotation. Group
// nodes without geometry contribute only their transform.
func (n *Node) Bounds() Box3 {
	box := NewBox3()
	return n.boundsInto(box, Vector3{}, 0)
}

func (n *Node) boundsInto(box Box3, parentPos Vector3, parentRot float64) Box3 {
	worldPos := parentPos.Add(n.Position.RotateY(parentRot))
	worldRot := parentRot + n.RotationY

	if g := n.Geometry; g != nil {
		hw, hh, hd := g.Width/2, g.Height/2, g.Depth/2
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				for _, sz := range []float64{-1, 1} {
					corner := Vector3{sx * hw, sy * hh, sz * hd}.RotateY(worldRot).Add(worldPos)
					box = box.ExpandByPoint(corner)
				}
			}
		}
	}
	for _, c := range n.children {
		box = c.boundsInto(box, worldPos, worldRot)
	}
	return box
}
