package engine

import (
	"math"
	"testing"
)

func TestVector3Normalize(t *testing.T) {
	v := Vector3{3, 0, 4}.Normalize()
	if math.Abs(v.Length()-1) > 1e-9 {
		t.Errorf("normalized length %v, want 1", v.Length())
	}
	zero := Vector3{}.Normalize()
	if zero != (Vector3{}) {
		t.Errorf("normalizing zero vector gave %+v, want zero", zero)
	}
	if !zero.IsFinite() {
		t.Error("zero vector should be finite")
	}
}

func TestVector3RotateY(t *testing.T) {
	// Rotating +X by 90 degrees about Y lands on -Z.
	v := Vector3{1, 0, 0}.RotateY(math.Pi / 2)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Z+1) > 1e-9 {
		t.Errorf("rotate (1,0,0) by pi/2 gave %+v, want (0,0,-1)", v)
	}
}

func TestBox3EmptyAndExpand(t *testing.T) {
	box := NewBox3()
	if !box.IsEmpty() {
		t.Fatal("new box should be empty")
	}
	if box.Center() != (Vector3{}) || box.Size() != (Vector3{}) {
		t.Error("empty box center/size should be zero vectors")
	}

	box = box.ExpandByPoint(Vector3{-1, 0, 2}).ExpandByPoint(Vector3{3, 4, -2})
	if box.IsEmpty() {
		t.Fatal("expanded box should not be empty")
	}
	if got, want := box.Center(), (Vector3{1, 2, 0}); got != want {
		t.Errorf("center %+v, want %+v", got, want)
	}
	if got, want := box.Size(), (Vector3{4, 4, 4}); got != want {
		t.Errorf("size %+v, want %+v", got, want)
	}
}

func TestNodeBoundsNestedTransforms(t *testing.T) {
	root := NewGroup("root")
	root.Position = Vector3{0, 10, 0}

	box := NewBox("slab", 2, 1, 2, Material{})
	box.Position = Vector3{1, 0, 1}
	root.Add(box)

	bounds := root.Bounds()
	if bounds.IsEmpty() {
		t.Fatal("bounds should not be empty")
	}
	if got, want := bounds.Center(), (Vector3{1, 10, 1}); got != want {
		t.Errorf("center %+v, want %+v", got, want)
	}
	if got, want := bounds.Size(), (Vector3{2, 1, 2}); got != want {
		t.Errorf("size %+v, want %+v", got, want)
	}
}

func TestNodeBoundsRotatedBox(t *testing.T) {
	root := NewGroup("root")
	wall := NewBox("wall", 10, 2, 0.2, Material{})
	wall.RotationY = math.Pi / 2 // long axis now along Z
	root.Add(wall)

	size := root.Bounds().Size()
	if math.Abs(size.X-0.2) > 1e-9 || math.Abs(size.Z-10) > 1e-9 {
		t.Errorf("rotated wall bounds size %+v, want x=0.2 z=10", size)
	}
}

func TestNodeRemove(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	root.Add(a)
	root.Add(b)
	root.Remove(a)
	if len(root.Children()) != 1 || root.Children()[0] != b {
		t.Errorf("remove left children %v", root.Children())
	}
	// Removing again is a no-op.
	root.Remove(a)
	if len(root.Children()) != 1 {
		t.Error("double remove changed children")
	}
}
