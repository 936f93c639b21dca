package types

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestFeatureValidate(t *testing.T) {
	tests := []struct {
		name    string
		feature Feature
		wantErr error
	}{
		{
			name: "valid point feature",
			feature: Feature{
				ID:       "f-1",
				Category: CategoryCoralTable,
				Geometry: orb.Point{115.3675, -8.13},
			},
		},
		{
			name: "valid polygon feature",
			feature: Feature{
				ID:       "f-2",
				Category: CategoryNaturalFeature,
				Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
			},
		},
		{
			name: "valid linestring feature",
			feature: Feature{
				ID:       "f-3",
				Category: CategoryMonitoringPoint,
				Geometry: orb.LineString{{0, 0}, {1, 1}},
			},
		},
		{
			name: "empty id rejected",
			feature: Feature{
				Category: CategoryOther,
				Geometry: orb.Point{0, 0},
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "unknown category rejected",
			feature: Feature{
				ID:       "f-4",
				Category: "shipwreck",
				Geometry: orb.Point{0, 0},
			},
			wantErr: ErrInvalidCategory,
		},
		{
			name: "missing geometry rejected",
			feature: Feature{
				ID:       "f-5",
				Category: CategoryOther,
			},
			wantErr: ErrInvalidGeometry,
		},
		{
			name: "unsupported geometry kind rejected",
			feature: Feature{
				ID:       "f-6",
				Category: CategoryOther,
				Geometry: orb.MultiPoint{{0, 0}},
			},
			wantErr: ErrInvalidGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.feature.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCoordinatePoint(t *testing.T) {
	c := Coordinate{Lat: -8.13, Lng: 115.3675}
	p := c.Point()
	assert.Equal(t, 115.3675, p.Lon())
	assert.Equal(t, -8.13, p.Lat())
}

func TestCategoriesStable(t *testing.T) {
	cats := Categories()
	assert.Equal(t, []string{
		CategoryCoralTable,
		CategoryNaturalFeature,
		CategoryMonitoringPoint,
		CategoryOther,
	}, cats)
	for _, c := range cats {
		assert.True(t, validCategories[c])
	}
}
