package types

import (
	"time"

	"github.com/paulmach/orb"
)

// Feature categories. Values match the portable document format's
// properties.type field.
const (
	CategoryCoralTable      = "coral_table"
	CategoryNaturalFeature  = "natural_feature"
	CategoryMonitoringPoint = "monitoring_point"
	CategoryOther           = "other"
)

// validCategories is the set of recognized category values.
var validCategories = map[string]bool{
	CategoryCoralTable:      true,
	CategoryNaturalFeature:  true,
	CategoryMonitoringPoint: true,
	CategoryOther:           true,
}

// ValidCategory reports whether s is a recognized category value.
func ValidCategory(s string) bool { return validCategories[s] }

// Categories returns the recognized category values in display order.
func Categories() []string {
	return []string{
		CategoryCoralTable,
		CategoryNaturalFeature,
		CategoryMonitoringPoint,
		CategoryOther,
	}
}

// Coordinate is a geographic position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinate as an orb lng/lat point.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Feature is one user-authored geospatial annotation: a geometry plus the
// properties carried by the portable document format. ID is immutable once
// assigned and is the sole join key between the domain feature and its
// rendered counterpart.
type Feature struct {
	ID            string       // unique within a collection, never reused
	Category      string       // one of the Category constants
	Label         string       // optional display label
	Notes         string       // optional free text
	ObservedFrom  string       // optional YYYY-MM-DD, empty when unset
	ObservedUntil string       // optional YYYY-MM-DD, empty when unset
	CreatedAt     time.Time    // stamped on first add
	UpdatedAt     time.Time    // stamped on every mutation
	Geometry      orb.Geometry // Point, LineString or Polygon
}

// GeometryKindValid reports whether g is one of the geometry types the
// document format accepts.
func GeometryKindValid(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon:
		return true
	default:
		return false
	}
}

// Validate checks that the feature is well-formed: non-empty id, recognized
// category, and a supported geometry type.
func (f Feature) Validate() error {
	if f.ID == "" {
		return ErrInvalidID
	}
	if !validCategories[f.Category] {
		return ErrInvalidCategory
	}
	if f.Geometry == nil || !GeometryKindValid(f.Geometry) {
		return ErrInvalidGeometry
	}
	return nil
}
