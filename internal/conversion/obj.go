package conversion

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"modeling-service/internal/engine"
)

// boxFaces indexes the eight box corners emitted per mesh, wound
// counterclockwise as seen from outside.
var boxFaces = [6][4]int{
	{1, 4, 3, 2}, // -z
	{5, 6, 7, 8}, // +z
	{1, 5, 8, 4}, // -x
	{2, 3, 7, 6}, // +x
	{1, 2, 6, 5}, // -y
	{4, 8, 7, 3}, // +y
}

// ExportOBJ serializes a scene node tree into Wavefront OBJ text. Every box
// mesh becomes an object with eight vertices and six quad faces in world
// space; group transforms (position and yaw) are baked into the vertices.
// The returned MTL document carries the material colors referenced by the
// OBJ via usemtl.
func ExportOBJ(root *engine.Node, mtlName string) ([]byte, []byte, error) {
	if root == nil {
		return nil, nil, errors.New("nil scene root")
	}

	var obj bytes.Buffer
	var mtl bytes.Buffer
	fmt.Fprintf(&obj, "# %s\n", root.Name)
	if mtlName != "" {
		fmt.Fprintf(&obj, "mtllib %s\n", mtlName)
	}

	seen := map[string]bool{}
	vertexBase := 0
	meshes := 0

	var walk func(n *engine.Node, parentPos engine.Vector3, parentRot float64)
	walk = func(n *engine.Node, parentPos engine.Vector3, parentRot float64) {
		pos := parentPos.Add(n.Position.RotateY(parentRot))
		rot := parentRot + n.RotationY

		if n.Geometry != nil {
			meshes++
			fmt.Fprintf(&obj, "o %s\n", n.Name)
			if n.Material != nil {
				if !seen[n.Material.Name] {
					seen[n.Material.Name] = true
					writeMaterial(&mtl, n.Material)
				}
				fmt.Fprintf(&obj, "usemtl %s\n", n.Material.Name)
			}

			hw := n.Geometry.Width / 2
			hh := n.Geometry.Height / 2
			hd := n.Geometry.Depth / 2
			corners := []engine.Vector3{
				{X: -hw, Y: -hh, Z: -hd},
				{X: hw, Y: -hh, Z: -hd},
				{X: hw, Y: hh, Z: -hd},
				{X: -hw, Y: hh, Z: -hd},
				{X: -hw, Y: -hh, Z: hd},
				{X: hw, Y: -hh, Z: hd},
				{X: hw, Y: hh, Z: hd},
				{X: -hw, Y: hh, Z: hd},
			}
			for _, c := range corners {
				w := pos.Add(c.RotateY(rot))
				fmt.Fprintf(&obj, "v %.6f %.6f %.6f\n", w.X, w.Y, w.Z)
			}
			for _, face := range boxFaces {
				fmt.Fprintf(&obj, "f %d %d %d %d\n",
					vertexBase+face[0], vertexBase+face[1], vertexBase+face[2], vertexBase+face[3])
			}
			vertexBase += 8
		}

		for _, child := range n.Children() {
			walk(child, pos, rot)
		}
	}
	walk(root, engine.Vector3{}, 0)

	if meshes == 0 {
		return nil, nil, errors.New("scene contains no meshes")
	}
	return obj.Bytes(), mtl.Bytes(), nil
}

func writeMaterial(mtl *bytes.Buffer, m *engine.Material) {
	r := float64(m.Color>>16&0xff) / 255
	g := float64(m.Color>>8&0xff) / 255
	b := float64(m.Color&0xff) / 255
	fmt.Fprintf(mtl, "newmtl %s\n", m.Name)
	fmt.Fprintf(mtl, "Kd %.4f %.4f %.4f\n", r, g, b)
	if m.Transparent {
		fmt.Fprintf(mtl, "d %.4f\n", m.Opacity)
	}
}
