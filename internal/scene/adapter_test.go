package scene

import (
	"math"
	"strings"
	"testing"

	"modeling-service/internal/engine"
	"modeling-service/internal/generator"
	"modeling-service/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func findChild(n *engine.Node, name string) *engine.Node {
	var found *engine.Node
	n.Traverse(func(c *engine.Node) {
		if c.Name == name && found == nil {
			found = c
		}
	})
	return found
}

func testModel(t *testing.T, area float64, floors int) *models.BuildingModelData {
	t.Helper()
	return generator.GenerateModelFromData(models.PropertyRecord{
		ID:             "prop-1",
		Dimensions:     models.PropertyDimensions{Area: area},
		NumberOfFloors: floors,
	})
}

func TestBuildSceneFloorGroupsAtElevation(t *testing.T) {
	model := testModel(t, 280, 2)
	root := BuildScene(model)

	if !strings.HasPrefix(root.Name, "building_") {
		t.Errorf("root group name %q", root.Name)
	}
	if len(root.Children()) != 2 {
		t.Fatalf("expected 2 floor groups, got %d", len(root.Children()))
	}
	for i, fg := range root.Children() {
		want := float64(i) * generator.FloorHeight
		if !almostEqual(fg.Position.Y, want) {
			t.Errorf("floor group %d at elevation %v, want %v", i, fg.Position.Y, want)
		}
	}
}

func TestBuildSceneWallBoxes(t *testing.T) {
	model := testModel(t, 150, 1)
	root := BuildScene(model)
	side := math.Sqrt(150)

	// Left wall runs (0,0)->(0,side) in plan: angle pi/2, rotation -pi/2.
	wall := findChild(root, "wall_0_left")
	if wall == nil {
		t.Fatal("left wall missing from scene")
	}
	if wall.Geometry == nil {
		t.Fatal("left wall has no geometry")
	}
	if !almostEqual(wall.Geometry.Width, side) ||
		!almostEqual(wall.Geometry.Height, generator.FloorHeight) ||
		!almostEqual(wall.Geometry.Depth, generator.WallThickness) {
		t.Errorf("wall geometry %+v, want (%v, %v, %v)", wall.Geometry, side, generator.FloorHeight, generator.WallThickness)
	}
	if !almostEqual(wall.RotationY, -math.Pi/2) {
		t.Errorf("wall rotation %v, want %v", wall.RotationY, -math.Pi/2)
	}
	wantPos := engine.Vector3{X: 0, Y: generator.FloorHeight / 2, Z: side / 2}
	if !almostEqual(wall.Position.X, wantPos.X) || !almostEqual(wall.Position.Y, wantPos.Y) || !almostEqual(wall.Position.Z, wantPos.Z) {
		t.Errorf("wall midpoint %+v, want %+v", wall.Position, wantPos)
	}
}

func TestBuildSceneOpeningPlacement(t *testing.T) {
	model := testModel(t, 150, 1)
	root := BuildScene(model)
	side := math.Sqrt(150)

	door := findChild(root, "door_wall_0_front")
	if door == nil {
		t.Fatal("door missing from scene")
	}
	// Front wall runs along plan X at plan y=0; the door is centered.
	if !almostEqual(door.Position.X, side/2) || !almostEqual(door.Position.Z, 0) {
		t.Errorf("door at (%v, %v), want (%v, 0)", door.Position.X, door.Position.Z, side/2)
	}
	if !almostEqual(door.Position.Y, door.Geometry.Height/2) {
		t.Errorf("door center height %v, want %v", door.Position.Y, door.Geometry.Height/2)
	}
	if door.Material.Name != "door" {
		t.Errorf("door material %q", door.Material.Name)
	}

	window := findChild(root, "window_wall_0_front_0")
	if window == nil {
		t.Fatal("first front window missing from scene")
	}
	spacing := side / 7 // 6 windows on a ~12.25m wall
	wantY := generator.FloorHeight/2 + generator.WindowSize/2
	if !almostEqual(window.Position.X, spacing) || !almostEqual(window.Position.Y, wantY) {
		t.Errorf("window at (%v, %v), want (%v, %v)", window.Position.X, window.Position.Y, spacing, wantY)
	}
	if window.Material.Name != "window" || !window.Material.Transparent {
		t.Errorf("window material %+v, want translucent window material", window.Material)
	}
}

func TestBuildSceneSkipsDegenerateWalls(t *testing.T) {
	model := testModel(t, 0, 1)
	root := BuildScene(model)

	var meshes int
	root.Traverse(func(n *engine.Node) {
		if n.Geometry != nil && strings.HasPrefix(n.Name, "wall_") {
			meshes++
		}
	})
	if meshes != 0 {
		t.Errorf("degenerate model produced %d wall meshes, want 0", meshes)
	}
}

func TestBuildSceneFeatures(t *testing.T) {
	model := generator.GenerateModelFromData(models.PropertyRecord{
		ID:         "prop-1",
		Dimensions: models.PropertyDimensions{Area: 150},
		Features:   []string{"garage"},
	})
	root := BuildScene(model)

	garage := findChild(root, "feature_garage")
	if garage == nil {
		t.Fatal("garage feature missing from scene")
	}
	if garage.Geometry.Width != 6 || garage.Geometry.Height != 2.4 {
		t.Errorf("garage geometry %+v", garage.Geometry)
	}
}

func TestBuildSceneMaterialsPerInstance(t *testing.T) {
	model := testModel(t, 150, 1)
	a := BuildScene(model)
	b := BuildScene(model)

	wallA := findChild(a, "wall_0_front")
	wallB := findChild(b, "wall_0_front")
	if wallA.Material == wallB.Material {
		t.Error("material instances shared across scene builds")
	}
	wallA.Material.Wireframe = true
	if wallB.Material.Wireframe {
		t.Error("wireframe toggle leaked across scene builds")
	}
}
