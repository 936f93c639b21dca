package geojson

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinamap/pkg/types"
)

func sampleCollection(t *testing.T) types.FeatureCollection {
	t.Helper()
	created := time.Date(2025, 7, 16, 9, 30, 0, 0, time.UTC)
	col := types.NewFeatureCollection(
		types.Feature{
			ID:           "table-1",
			Category:     types.CategoryCoralTable,
			Label:        "Table 1",
			Notes:        "north row",
			ObservedFrom: "2025-07-09",
			CreatedAt:    created,
			UpdatedAt:    created,
			Geometry:     orb.Point{115.367526, -8.129998},
		},
		types.Feature{
			ID:        "zone-a",
			Category:  types.CategoryNaturalFeature,
			CreatedAt: created,
			UpdatedAt: created,
			Geometry:  orb.Polygon{{{115.36, -8.12}, {115.37, -8.12}, {115.37, -8.13}, {115.36, -8.12}}},
		},
		types.Feature{
			ID:        "transect-3",
			Category:  types.CategoryMonitoringPoint,
			CreatedAt: created,
			UpdatedAt: created,
			Geometry:  orb.LineString{{115.36, -8.12}, {115.37, -8.13}},
		},
	)
	return col
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	col := sampleCollection(t)

	data, err := Marshal(col)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, col.Len(), back.Len())
	for _, orig := range col.Features() {
		got, ok := back.Find(orig.ID)
		require.True(t, ok, "feature %s survives the round trip", orig.ID)
		assert.Equal(t, orig.Category, got.Category)
		assert.Equal(t, orig.Label, got.Label)
		assert.Equal(t, orig.Notes, got.Notes)
		assert.Equal(t, orig.ObservedFrom, got.ObservedFrom)
		assert.Equal(t, orig.ObservedUntil, got.ObservedUntil)
		assert.True(t, orig.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, orig.Geometry, got.Geometry)
	}
}

func TestMarshalReproducible(t *testing.T) {
	col := sampleCollection(t)

	a, err := Marshal(col)
	require.NoError(t, err)
	b, err := Marshal(col)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical input must marshal byte-for-byte identically")
}

func TestMarshalFieldOrder(t *testing.T) {
	data, err := Marshal(sampleCollection(t))
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"type": "FeatureCollection"`)
	// Property order is fixed by the record struct, not map iteration.
	idIdx := indexOf(t, text, `"id": "table-1"`)
	typeIdx := indexOf(t, text, `"type": "coral_table"`)
	labelIdx := indexOf(t, text, `"label": "Table 1"`)
	assert.Less(t, idIdx, typeIdx)
	assert.Less(t, typeIdx, labelIdx)
}

func TestUnmarshalRejectsWrongTopLevelType(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "bare feature", doc: `{"type":"Feature","features":[]}`},
		{name: "geometry collection", doc: `{"type":"GeometryCollection","features":[]}`},
		{name: "missing type", doc: `{"features":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			assert.ErrorIs(t, err, types.ErrInvalidDocument)
		})
	}
}

func TestUnmarshalSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		feature string
	}{
		{
			name:    "missing id",
			feature: `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}`,
		},
		{
			name:    "missing geometry",
			feature: `{"type":"Feature","properties":{"id":"a"}}`,
		},
		{
			name:    "null geometry",
			feature: `{"type":"Feature","properties":{"id":"a"},"geometry":null}`,
		},
		{
			name:    "missing geometry type",
			feature: `{"type":"Feature","properties":{"id":"a"},"geometry":{"coordinates":[0,0]}}`,
		},
		{
			name:    "missing coordinates",
			feature: `{"type":"Feature","properties":{"id":"a"},"geometry":{"type":"Point"}}`,
		},
		{
			name:    "unsupported geometry type",
			feature: `{"type":"Feature","properties":{"id":"a"},"geometry":{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"type":"FeatureCollection","features":[` + tt.feature + `]}`
			_, err := Unmarshal([]byte(doc))
			assert.ErrorIs(t, err, types.ErrSchemaError)
		})
	}
}

func TestUnmarshalCoercesUnknownCategory(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"id":"a","type":"shipwreck"},
		 "geometry":{"type":"Point","coordinates":[115.36,-8.12]}}]}`

	col, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	f, ok := col.Find("a")
	require.True(t, ok)
	assert.Equal(t, types.CategoryOther, f.Category)
}

func TestUnmarshalNullDatesRoundTrip(t *testing.T) {
	data, err := Marshal(sampleCollection(t))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	features := raw["features"].([]any)
	props := features[1].(map[string]any)["properties"].(map[string]any)
	assert.Nil(t, props["dateAdded"], "unset observation date exports as null")
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2025, 7, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "features-2025-07-16.geojson", ExportFilename(at))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "expected %q in document", sub)
	return idx
}
