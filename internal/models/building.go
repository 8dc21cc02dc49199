package models

import (
	"math"
	"time"
)

// WallType classifies a wall segment. The generator only emits exterior
// walls; the other types exist for models loaded from external sources.
type WallType string

const (
	WallExterior    WallType = "exterior"
	WallInterior    WallType = "interior"
	WallLoadBearing WallType = "load-bearing"
	WallPartition   WallType = "partition"
)

// OpeningType classifies an opening cut into a wall.
type OpeningType string

const (
	OpeningDoor     OpeningType = "door"
	OpeningWindow   OpeningType = "window"
	OpeningSkylight OpeningType = "skylight"
	OpeningOther    OpeningType = "other"
)

// Point2 is a 2D coordinate in a floor's local plan, in meters.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 is a 3D coordinate in meters. For openings, X is the arc-length
// distance along the owning wall and Z the vertical offset from the wall base.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions holds the extents of a box-like feature, in meters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// BuildingOpening is a door or window cut into a wall. Position is expressed
// as arc-length along the owning wall's start->end vector. WallID is a
// non-owning back-reference; the wall owns the opening list.
type BuildingOpening struct {
	ID       string      `json:"id"`
	Type     OpeningType `json:"type"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Position Point3      `json:"position"`
	WallID   string      `json:"wallId"`
}

// BuildingWall is a straight 2D segment extruded vertically. Height matches
// the owning floor's height; Start and End must differ for the wall to be
// renderable.
type BuildingWall struct {
	ID         string            `json:"id"`
	Type       WallType          `json:"type"`
	Start      Point2            `json:"start"`
	End        Point2            `json:"end"`
	Height     float64           `json:"height"`
	Thickness  float64           `json:"thickness"`
	Openings   []BuildingOpening `json:"openings"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Length returns the plan length of the wall segment.
func (w *BuildingWall) Length() float64 {
	dx := w.End.X - w.Start.X
	dy := w.End.Y - w.Start.Y
	return math.Hypot(dx, dy)
}

// BuildingFeature is a discrete point feature (pool, garage) not expressed
// as walls. Created once by the generator and immutable thereafter; the
// floorId property names the floor it is attached to.
type BuildingFeature struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Location   Point3            `json:"location"`
	Dimensions *Dimensions       `json:"dimensions,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// BuildingFloor is one story. Elevation equals level*height for
// generator-produced models so floors stack without gaps or overlaps.
type BuildingFloor struct {
	ID        string            `json:"id"`
	Level     int               `json:"level"`
	Height    float64           `json:"height"`
	Area      float64           `json:"area"`
	Elevation float64           `json:"elevation"`
	Walls     []BuildingWall    `json:"walls"`
	Features  []BuildingFeature `json:"features"`
}

// BuildingModelData is the root artifact for one generated or loaded
// building. Floors are ordered by level ascending, level 0 being ground.
// The floors slice is replaced wholesale on regeneration, never mutated in
// place; Updated changes whenever that happens.
type BuildingModelData struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"propertyId"`
	Version    int             `json:"version"`
	Created    time.Time       `json:"created"`
	Updated    time.Time       `json:"updated"`
	Floors     []BuildingFloor `json:"floors"`
}
