package geojson

import (
	"encoding/json"
	"fmt"
	"time"

	orbgeojson "github.com/paulmach/orb/geojson"

	"dinamap/pkg/types"
)

// Marshal serializes the collection as an indented GeoJSON document with a
// stable field order. Identical collections marshal to identical bytes.
func Marshal(col types.FeatureCollection) ([]byte, error) {
	features := col.Features()
	doc := documentJSON{
		Type:     TypeFeatureCollection,
		Features: make([]featureJSON, 0, len(features)),
	}
	for _, f := range features {
		geom, err := json.Marshal(orbgeojson.NewGeometry(f.Geometry))
		if err != nil {
			return nil, fmt.Errorf("marshaling geometry of %s: %w", f.ID, err)
		}
		doc.Features = append(doc.Features, featureJSON{
			Type: TypeFeature,
			Properties: propertiesJSON{
				ID:          f.ID,
				Type:        f.Category,
				Label:       f.Label,
				Notes:       f.Notes,
				DateAdded:   optionalDate(f.ObservedFrom),
				DateRemoved: optionalDate(f.ObservedUntil),
				CreatedAt:   timestamp(f.CreatedAt),
				UpdatedAt:   timestamp(f.UpdatedAt),
			},
			Geometry: geom,
		})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return append(out, '\n'), nil
}

// Unmarshal parses a portable feature document. It fails with
// types.ErrInvalidDocument when the top-level type tag is not
// "FeatureCollection" and with types.ErrSchemaError when a feature lacks
// id, geometry.type or geometry.coordinates, or uses a geometry type the
// format does not accept. The returned collection is complete or the error
// is non-nil; partial results are never produced.
func Unmarshal(data []byte) (types.FeatureCollection, error) {
	var doc documentJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.FeatureCollection{}, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	if doc.Type != TypeFeatureCollection {
		return types.FeatureCollection{}, fmt.Errorf("%w: got type %q", types.ErrInvalidDocument, doc.Type)
	}

	features := make([]types.Feature, 0, len(doc.Features))
	for i, fj := range doc.Features {
		f, err := decodeFeature(fj)
		if err != nil {
			return types.FeatureCollection{}, fmt.Errorf("feature %d: %w", i, err)
		}
		features = append(features, f)
	}
	return types.NewFeatureCollection(features...), nil
}

func decodeFeature(fj featureJSON) (types.Feature, error) {
	if fj.Properties.ID == "" {
		return types.Feature{}, fmt.Errorf("%w: id", types.ErrSchemaError)
	}
	if len(fj.Geometry) == 0 || string(fj.Geometry) == "null" {
		return types.Feature{}, fmt.Errorf("%w: geometry", types.ErrSchemaError)
	}

	var gj geometryJSON
	if err := json.Unmarshal(fj.Geometry, &gj); err != nil {
		return types.Feature{}, fmt.Errorf("%w: geometry: %v", types.ErrSchemaError, err)
	}
	if gj.Type == "" {
		return types.Feature{}, fmt.Errorf("%w: geometry.type", types.ErrSchemaError)
	}
	if len(gj.Coordinates) == 0 || string(gj.Coordinates) == "null" {
		return types.Feature{}, fmt.Errorf("%w: geometry.coordinates", types.ErrSchemaError)
	}
	if !validGeometryTypes[gj.Type] {
		return types.Feature{}, fmt.Errorf("%w: geometry type %q", types.ErrSchemaError, gj.Type)
	}

	geom, err := orbgeojson.UnmarshalGeometry(fj.Geometry)
	if err != nil {
		return types.Feature{}, fmt.Errorf("%w: geometry: %v", types.ErrSchemaError, err)
	}

	// Missing or unrecognized categories fall back to "other", matching
	// what the export side of older documents produced.
	category := fj.Properties.Type
	if !types.ValidCategory(category) {
		category = types.CategoryOther
	}

	f := types.Feature{
		ID:        fj.Properties.ID,
		Category:  category,
		Label:     fj.Properties.Label,
		Notes:     fj.Properties.Notes,
		CreatedAt: parseTimestamp(fj.Properties.CreatedAt),
		UpdatedAt: parseTimestamp(fj.Properties.UpdatedAt),
		Geometry:  geom.Geometry(),
	}
	if fj.Properties.DateAdded != nil {
		f.ObservedFrom = *fj.Properties.DateAdded
	}
	if fj.Properties.DateRemoved != nil {
		f.ObservedUntil = *fj.Properties.DateRemoved
	}
	return f, nil
}

// ExportFilename returns the download name for an export performed at t,
// e.g. features-2025-07-16.geojson.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("features-%s.geojson", t.UTC().Format("2006-01-02"))
}
