package scene

import (
	"math"

	"github.com/sirupsen/logrus"

	"modeling-service/internal/engine"
	"modeling-service/internal/models"
)

const slabThickness = 0.1

// Plan coordinates are meters in the floor plane; the plan Y axis maps to
// world Z, with world Y up.

// material templates keyed by primitive kind. Each mesh gets its own copy so
// wireframe toggles stay scoped to one model group.
var materialTable = map[string]engine.Material{
	"wall":    {Name: "wall", Color: 0xaaaaaa, Opacity: 1},
	"slab":    {Name: "slab", Color: 0xcccccc, Opacity: 1},
	"window":  {Name: "window", Color: 0x87cefa, Opacity: 0.5, Transparent: true},
	"door":    {Name: "door", Color: 0x8b4513, Opacity: 1},
	"feature": {Name: "feature", Color: 0x2e8b57, Opacity: 1},
}

// MaterialFor returns the material template for a primitive kind. Unknown
// kinds fall back to the wall material.
func MaterialFor(kind string) engine.Material {
	if m, ok := materialTable[kind]; ok {
		return m
	}
	return materialTable["wall"]
}

// BuildScene converts a building model into a renderable group hierarchy:
// one sub-group per floor positioned at its elevation, a floor slab, one box
// per wall, and overlaid boxes for openings and features. Openings are not
// boolean-subtracted from walls; they are drawn as thin solids on top.
func BuildScene(model *models.BuildingModelData) *engine.Node {
	root := engine.NewGroup("building_" + model.ID)
	for i := range model.Floors {
		root.Add(buildFloor(&model.Floors[i]))
	}
	return root
}

func buildFloor(floor *models.BuildingFloor) *engine.Node {
	group := engine.NewGroup(floor.ID)
	group.Position = engine.Vector3{Y: floor.Elevation}

	side := math.Sqrt(floor.Area)
	slab := engine.NewBox(floor.ID+"_slab", side, slabThickness, side, MaterialFor("slab"))
	slab.Position = engine.Vector3{X: side / 2, Y: slabThickness / 2, Z: side / 2}
	group.Add(slab)

	for i := range floor.Walls {
		addWall(group, &floor.Walls[i])
	}
	for i := range floor.Features {
		group.Add(buildFeature(&floor.Features[i]))
	}
	return group
}

// addWall appends the wall box and its opening boxes to the floor group.
// Degenerate walls (start == end) are skipped with a warning rather than
// producing a zero-length primitive that would poison bounding-box math
// downstream.
func addWall(group *engine.Node, wall *models.BuildingWall) {
	dx := wall.End.X - wall.Start.X
	dy := wall.End.Y - wall.Start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		logrus.Warnf("Skipping degenerate wall %s: start == end at (%v, %v)", wall.ID, wall.Start.X, wall.Start.Y)
		return
	}
	angle := math.Atan2(dy, dx)

	node := engine.NewBox(wall.ID, length, wall.Height, wall.Thickness, MaterialFor("wall"))
	node.Position = engine.Vector3{
		X: (wall.Start.X + wall.End.X) / 2,
		Y: wall.Height / 2,
		Z: (wall.Start.Y + wall.End.Y) / 2,
	}
	node.RotationY = -angle
	group.Add(node)

	dirX, dirY := dx/length, dy/length
	for i := range wall.Openings {
		opening := &wall.Openings[i]
		kind := "window"
		if opening.Type == models.OpeningDoor {
			kind = "door"
		}
		// Interpolate along the wall direction at the opening's arc length;
		// the box protrudes slightly past the wall faces so it stays visible.
		box := engine.NewBox(opening.ID, opening.Width, opening.Height, wall.Thickness+0.05, MaterialFor(kind))
		box.Position = engine.Vector3{
			X: wall.Start.X + dirX*opening.Position.X,
			Y: opening.Position.Z + opening.Height/2,
			Z: wall.Start.Y + dirY*opening.Position.X,
		}
		box.RotationY = -angle
		group.Add(box)
	}
}

func buildFeature(feature *models.BuildingFeature) *engine.Node {
	dims := models.Dimensions{Width: 1, Height: 1, Depth: 1}
	if feature.Dimensions != nil {
		dims = *feature.Dimensions
	}
	node := engine.NewBox(feature.ID, dims.Width, dims.Height, dims.Depth, MaterialFor("feature"))
	node.Position = engine.Vector3{
		X: feature.Location.X,
		Y: feature.Location.Y + dims.Height/2,
		Z: feature.Location.Z,
	}
	return node
}
