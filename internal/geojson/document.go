// JSON record structures for the portable feature document format.
// Field order in these structs fixes the serialized field order.
package geojson

import (
	"encoding/json"
	"time"
)

// Top-level type tags of the document format.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
)

// Geometry types the document format accepts.
var validGeometryTypes = map[string]bool{
	"Point":      true,
	"Polygon":    true,
	"LineString": true,
}

// documentJSON is the top-level feature collection document.
type documentJSON struct {
	Type     string        `json:"type"`
	Features []featureJSON `json:"features"`
}

// featureJSON is one annotation feature in the document.
type featureJSON struct {
	Type       string          `json:"type"`
	Properties propertiesJSON  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// propertiesJSON carries the annotation properties. dateAdded and
// dateRemoved are nullable dates; everything else is always present.
type propertiesJSON struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Label       string  `json:"label"`
	Notes       string  `json:"notes"`
	DateAdded   *string `json:"dateAdded"`
	DateRemoved *string `json:"dateRemoved"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// geometryJSON is the shape used to check required geometry fields before
// handing the raw bytes to the orb decoder.
type geometryJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// optionalDate maps an empty domain date to JSON null and back.
func optionalDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// timestamp formats a stamp as ISO 8601 UTC, or empty when unset.
func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp is lenient: timestamps are informational, a malformed or
// missing value decodes to the zero time rather than failing the import.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
