package generator

import (
	"fmt"
	"math"
	"time"

	"modeling-service/internal/models"
)

// Geometry constants shared by every generated model.
const (
	FloorHeight   = 2.7  // meters per story
	WallThickness = 0.25 // meters
	DoorWidth     = 0.9
	DoorHeight    = 2.1
	WindowSize    = 1.2
)

// GenerateFloors derives the floor stack from a property record. A missing
// or non-positive floor count degrades to a single ground floor; the total
// plot area is shared equally between floors and elevations stack without
// gaps (elevation = level * FloorHeight).
func GenerateFloors(property models.PropertyRecord) []models.BuildingFloor {
	count := property.NumberOfFloors
	if count < 1 {
		count = 1
	}
	areaPerFloor := property.Dimensions.Area / float64(count)

	floors := make([]models.BuildingFloor, 0, count)
	for level := 0; level < count; level++ {
		floors = append(floors, models.BuildingFloor{
			ID:        fmt.Sprintf("floor_%d", level),
			Level:     level,
			Height:    FloorHeight,
			Area:      areaPerFloor,
			Elevation: float64(level) * FloorHeight,
			Walls:     []models.BuildingWall{},
			Features:  []models.BuildingFeature{},
		})
	}
	return floors
}

// wall orientations, in emission order.
var orientations = []string{"front", "back", "left", "right"}

// GenerateWalls emits the four exterior perimeter walls for each floor,
// forming a closed square loop with side length sqrt(floor.area). Each wall
// carries floorId, level, and orientation properties for later assembly.
func GenerateWalls(floors []models.BuildingFloor) []models.BuildingWall {
	var walls []models.BuildingWall
	for _, floor := range floors {
		side := math.Sqrt(floor.Area)
		segments := map[string][2]models.Point2{
			"front": {{X: 0, Y: 0}, {X: side, Y: 0}},
			"back":  {{X: 0, Y: side}, {X: side, Y: side}},
			"left":  {{X: 0, Y: 0}, {X: 0, Y: side}},
			"right": {{X: side, Y: 0}, {X: side, Y: side}},
		}
		for _, orientation := range orientations {
			seg := segments[orientation]
			walls = append(walls, models.BuildingWall{
				ID:        fmt.Sprintf("wall_%d_%s", floor.Level, orientation),
				Type:      models.WallExterior,
				Start:     seg[0],
				End:       seg[1],
				Height:    floor.Height,
				Thickness: WallThickness,
				Openings:  []models.BuildingOpening{},
				Properties: map[string]string{
					"floorId":     floor.ID,
					"level":       fmt.Sprintf("%d", floor.Level),
					"orientation": orientation,
				},
			})
		}
	}
	return walls
}

// GenerateOpenings places openings on exterior walls: one centered door on
// the ground-floor front wall, and floor(length/2) evenly spaced windows on
// every exterior wall. Window spacing is length/(count+1) measured as
// arc-length from the wall start.
func GenerateOpenings(walls []models.BuildingWall) []models.BuildingOpening {
	var openings []models.BuildingOpening
	for _, wall := range walls {
		if wall.Type != models.WallExterior {
			continue
		}
		length := wall.Length()

		if wall.Properties["orientation"] == "front" && wall.Properties["level"] == "0" {
			height := DoorHeight
			if wall.Height < height {
				height = wall.Height
			}
			openings = append(openings, models.BuildingOpening{
				ID:     fmt.Sprintf("door_%s", wall.ID),
				Type:   models.OpeningDoor,
				Width:  DoorWidth,
				Height: height,
				Position: models.Point3{
					X: length / 2,
					Z: 0,
				},
				WallID: wall.ID,
			})
		}

		windowCount := int(math.Floor(length / 2))
		if windowCount < 1 {
			continue
		}
		spacing := length / float64(windowCount+1)
		for i := 0; i < windowCount; i++ {
			openings = append(openings, models.BuildingOpening{
				ID:     fmt.Sprintf("window_%s_%d", wall.ID, i),
				Type:   models.OpeningWindow,
				Width:  WindowSize,
				Height: WindowSize,
				Position: models.Point3{
					X: spacing * float64(i+1),
					Z: wall.Height / 2,
				},
				WallID: wall.ID,
			})
		}
	}
	return openings
}

// featureTemplate holds the fixed offsets a known property feature flag maps
// to. Offsets are relative to the ground-floor plan origin.
type featureTemplate struct {
	name       string
	location   models.Point3
	dimensions models.Dimensions
}

var featureTemplates = map[string]featureTemplate{
	"swimming_pool": {
		name:       "Swimming Pool",
		location:   models.Point3{X: -6, Y: 0, Z: -3},
		dimensions: models.Dimensions{Width: 8, Height: 0.5, Depth: 4},
	},
	"garage": {
		name:       "Garage",
		location:   models.Point3{X: 8, Y: 0, Z: 1},
		dimensions: models.Dimensions{Width: 6, Height: 2.4, Depth: 6},
	},
}

// GenerateFeatures maps known property feature flags to fixed-offset point
// features anchored to the ground floor. Unknown flags are ignored.
func GenerateFeatures(property models.PropertyRecord) []models.BuildingFeature {
	var features []models.BuildingFeature
	for _, flag := range property.Features {
		tpl, ok := featureTemplates[flag]
		if !ok {
			continue
		}
		dims := tpl.dimensions
		features = append(features, models.BuildingFeature{
			ID:         fmt.Sprintf("feature_%s", flag),
			Type:       flag,
			Name:       tpl.name,
			Location:   tpl.location,
			Dimensions: &dims,
			Properties: map[string]string{"floorId": "floor_0"},
		})
	}
	return features
}

// GenerateModelFromData assembles a complete building model from a property
// record. This is the only operation with side effects (id and timestamp
// generation); the individual generate steps are pure functions of their
// inputs. Geometric sanity of the input is not validated here: a zero-area
// property yields a degenerate but structurally valid model.
func GenerateModelFromData(property models.PropertyRecord) *models.BuildingModelData {
	now := time.Now()

	floors := GenerateFloors(property)
	walls := GenerateWalls(floors)
	openings := GenerateOpenings(walls)
	features := GenerateFeatures(property)

	// Attach openings to their owning walls.
	byWall := make(map[string][]models.BuildingOpening)
	for _, opening := range openings {
		byWall[opening.WallID] = append(byWall[opening.WallID], opening)
	}
	for i := range walls {
		if owned, ok := byWall[walls[i].ID]; ok {
			walls[i].Openings = owned
		}
	}

	// Attach walls and features to their owning floors.
	byFloor := make(map[string][]models.BuildingWall)
	for _, wall := range walls {
		floorID := wall.Properties["floorId"]
		byFloor[floorID] = append(byFloor[floorID], wall)
	}
	for i := range floors {
		if owned, ok := byFloor[floors[i].ID]; ok {
			floors[i].Walls = owned
		}
	}
	for _, feature := range features {
		floorID := feature.Properties["floorId"]
		for i := range floors {
			if floors[i].ID == floorID {
				floors[i].Features = append(floors[i].Features, feature)
				break
			}
		}
	}

	return &models.BuildingModelData{
		ID:         fmt.Sprintf("model_%s_%d", property.ID, now.UnixMilli()),
		PropertyID: property.ID,
		Version:    1,
		Created:    now,
		Updated:    now,
		Floors:     floors,
	}
}
