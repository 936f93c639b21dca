package render

import (
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinamap/pkg/types"
)

func testView() View {
	return View{Center: types.Coordinate{Lat: -8.129998, Lng: 115.367526}, Zoom: 18}
}

func testStack() types.LayerStack {
	return types.NewLayerStack(
		types.LayerDescriptor{ID: "osm", Kind: types.LayerKindOSM, Order: 0, DefaultVisible: true},
		types.LayerDescriptor{
			ID: "satellite", Kind: types.LayerKindSatellite, Order: 1,
			SourceURL: "https://tiles.example.com/{z}/{y}/{x}", MaxZoom: 18,
		},
		types.LayerDescriptor{
			ID: "drone-land", Kind: types.LayerKindRasterImage, Order: 2,
			SourceURL: "https://example.com/scan.cog.tif", DefaultVisible: true,
		},
	)
}

func testFeature(id string, at types.Coordinate) types.Feature {
	return types.Feature{
		ID:       id,
		Category: types.CategoryCoralTable,
		Geometry: at.Point(),
	}
}

func TestBridgeBuild(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})

	col := types.NewFeatureCollection(testFeature("t1", types.Coordinate{Lat: -8.13, Lng: 115.3675}))
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	assert.True(t, engine.Mounted())
	tiles := engine.TileLayers()
	require.Len(t, tiles, 3)
	assert.Equal(t, TileOSM, tiles[0].Spec.Kind)
	assert.Equal(t, TileXYZ, tiles[1].Spec.Kind)
	assert.Equal(t, TileRaster, tiles[2].Spec.Kind)
	assert.True(t, tiles[0].Visible())
	assert.False(t, tiles[1].Visible())

	vectors := engine.VectorLayers()
	require.Len(t, vectors, 1, "exactly one annotation layer above the basemaps")
	features := vectors[0].Features()
	require.Len(t, features, 1)
	assert.Equal(t, "t1", features[0].RefID)

	assert.Equal(t, 1, engine.ListenerCount())
}

func TestBridgeBuildUnknownKindFatal(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})

	stack := types.NewLayerStack(
		types.LayerDescriptor{ID: "x", Kind: "geotiff", Order: 0},
	)
	err := bridge.Build(testView(), stack, types.NewFeatureCollection())
	assert.ErrorIs(t, err, types.ErrUnknownLayerKind)
	assert.False(t, engine.Mounted(), "no partially-configured scene")
	assert.False(t, bridge.Built())
}

func TestBridgeBuildDuplicateOrderFatal(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})

	stack := types.NewLayerStack(
		types.LayerDescriptor{ID: "a", Kind: types.LayerKindOSM, Order: 0},
		types.LayerDescriptor{ID: "b", Kind: types.LayerKindOSM, Order: 0},
	)
	err := bridge.Build(testView(), stack, types.NewFeatureCollection())
	assert.ErrorIs(t, err, types.ErrDuplicateOrder)
	assert.False(t, engine.Mounted())
}

func TestBridgeBuildOncePerIdentity(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	col := types.NewFeatureCollection()

	require.NoError(t, bridge.Build(testView(), testStack(), col))
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	assert.Len(t, engine.TileLayers(), 3, "same identity must not rebuild")
	assert.Equal(t, 1, engine.ListenerCount(), "no duplicate listeners")

	// A different home framing is a new identity: rebuilt, still one
	// listener.
	otherView := View{Center: types.Coordinate{Lat: -8.5, Lng: 115.5}, Zoom: 12}
	require.NoError(t, bridge.Build(otherView, testStack(), col))
	assert.Equal(t, 1, engine.ListenerCount())
	assert.Len(t, engine.TileLayers(), 3)
}

func TestBridgeSyncVisibilityTouchesOnlyToggledLayer(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	stack := testStack()
	require.NoError(t, bridge.Build(testView(), stack, types.NewFeatureCollection()))

	before := make([]bool, 0, 3)
	for _, l := range engine.TileLayers() {
		before = append(before, l.Visible())
	}

	toggled, err := stack.Toggle("satellite")
	require.NoError(t, err)
	bridge.SyncVisibility(toggled)

	after := engine.TileLayers()
	assert.Equal(t, before[0], after[0].Visible())
	assert.NotEqual(t, before[1], after[1].Visible(), "exactly the toggled layer changes")
	assert.Equal(t, before[2], after[2].Visible())
	assert.Len(t, engine.TileLayers(), 3, "reconciliation must not rebuild")
}

func TestBridgeSyncFeaturesRepopulates(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	require.NoError(t, bridge.Build(testView(), testStack(), types.NewFeatureCollection()))

	col := types.NewFeatureCollection(
		testFeature("a", types.Coordinate{Lat: -8.13, Lng: 115.3675}),
		testFeature("b", types.Coordinate{Lat: -8.131, Lng: 115.368}),
	)
	bridge.SyncFeatures(col)

	overlay := engine.VectorLayers()[0]
	require.Len(t, overlay.Features(), 2)

	smaller, err := col.Remove("a")
	require.NoError(t, err)
	bridge.SyncFeatures(smaller)
	features := overlay.Features()
	require.Len(t, features, 1)
	assert.Equal(t, "b", features[0].RefID)
}

func TestBridgeCoordinateMarker(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	col := types.NewFeatureCollection(testFeature("a", types.Coordinate{Lat: -8.13, Lng: 115.3675}))
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	at := types.Coordinate{Lat: -8.14, Lng: 115.37}
	bridge.SetCoordinateMarker(&at)

	overlay := engine.VectorLayers()[0]
	features := overlay.Features()
	require.Len(t, features, 2, "marker shares the annotation layer")
	assert.Equal(t, "", features[1].RefID, "marker carries no back-reference")

	bridge.SetCoordinateMarker(nil)
	assert.Len(t, overlay.Features(), 1)
}

func TestBridgePickResolution(t *testing.T) {
	engine := NewMemoryEngine()
	at := types.Coordinate{Lat: -8.13, Lng: 115.3675}
	col := types.NewFeatureCollection(testFeature("t1", at))

	var events []ClickEvent
	bridge := New(engine, Options{
		Resolve: func(id string) (types.Feature, bool) { return col.Find(id) },
		OnClick: func(ev ClickEvent) { events = append(events, ev) },
	})
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	engine.Click(at)
	require.Len(t, events, 1)
	assert.Equal(t, "t1", events[0].FeatureID)

	// Far away: bare coordinate.
	engine.Click(types.Coordinate{Lat: -8.5, Lng: 115.9})
	require.Len(t, events, 2)
	assert.Equal(t, "", events[1].FeatureID)
}

func TestBridgeStalePickDegradesToCoordinate(t *testing.T) {
	engine := NewMemoryEngine()
	at := types.Coordinate{Lat: -8.13, Lng: 115.3675}
	col := types.NewFeatureCollection(testFeature("t1", at))

	var events []ClickEvent
	bridge := New(engine, Options{
		// The feature was deleted between render and click: the id no
		// longer resolves even though the rendered object still exists.
		Resolve: func(id string) (types.Feature, bool) { return types.Feature{}, false },
		OnClick: func(ev ClickEvent) { events = append(events, ev) },
	})
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	engine.Click(at)
	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].FeatureID, "stale pick is a bare coordinate, not an error")
	assert.Equal(t, at, events[0].Coordinate)
}

func TestBridgeFlyToStages(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{FlyToDuration: 8 * time.Second})
	require.NoError(t, bridge.Build(testView(), testStack(), types.NewFeatureCollection()))

	target := types.Coordinate{Lat: -8.65, Lng: 115.21}
	bridge.FlyTo(target)

	flights := engine.Flights()
	require.Len(t, flights, 1)
	stages := flights[0]
	require.Len(t, stages, 3)

	require.NotNil(t, stages[0].Zoom)
	assert.Equal(t, FlyToWideZoom, *stages[0].Zoom)
	assert.Equal(t, 2*time.Second, stages[0].Duration)

	require.NotNil(t, stages[1].Center)
	assert.Equal(t, target, *stages[1].Center)
	assert.Equal(t, 4*time.Second, stages[1].Duration)

	require.NotNil(t, stages[2].Zoom)
	assert.Equal(t, FlyToCloseZoom, *stages[2].Zoom)
	assert.Equal(t, 2*time.Second, stages[2].Duration)
}

func TestBridgeTeardown(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	require.NoError(t, bridge.Build(testView(), testStack(), types.NewFeatureCollection()))

	bridge.Teardown()
	assert.False(t, engine.Mounted())
	assert.Equal(t, 0, engine.ListenerCount(), "teardown must not leak listeners")
	assert.False(t, bridge.Built())

	// A rebuilt bridge registers exactly one listener again.
	require.NoError(t, bridge.Build(testView(), testStack(), types.NewFeatureCollection()))
	assert.Equal(t, 1, engine.ListenerCount())
}

func TestMemoryEnginePolygonPick(t *testing.T) {
	engine := NewMemoryEngine()
	bridge := New(engine, Options{})
	poly := types.Feature{
		ID:       "zone",
		Category: types.CategoryNaturalFeature,
		Geometry: orb.Polygon{{{115.36, -8.14}, {115.38, -8.14}, {115.38, -8.12}, {115.36, -8.12}, {115.36, -8.14}}},
	}
	col := types.NewFeatureCollection(poly)
	require.NoError(t, bridge.Build(testView(), testStack(), col))

	id, ok := engine.PickAt(types.Coordinate{Lat: -8.13, Lng: 115.37})
	require.True(t, ok)
	assert.Equal(t, "zone", id)

	_, ok = engine.PickAt(types.Coordinate{Lat: -8.2, Lng: 115.5})
	assert.False(t, ok)
}

// brokenTileEngine refuses raster sources, failing a build partway through
// after earlier layers have already been handed out.
type brokenTileEngine struct {
	*MemoryEngine
}

func (e *brokenTileEngine) AddTileLayer(spec TileSpec) (Layer, error) {
	if spec.Kind == TileRaster {
		return nil, errors.New("tile source unavailable")
	}
	return e.MemoryEngine.AddTileLayer(spec)
}

func TestBridgeBuildFailureDropsPartialLayers(t *testing.T) {
	engine := &brokenTileEngine{MemoryEngine: NewMemoryEngine()}
	bridge := New(engine, Options{})

	err := bridge.Build(testView(), testStack(), types.NewFeatureCollection())
	require.Error(t, err)
	assert.False(t, engine.Mounted())
	assert.False(t, bridge.Built())
	assert.Empty(t, bridge.layers, "handles from the failed build must not linger")

	// A later build starts from a clean slate and holds only its own layers.
	stack := types.NewLayerStack(
		types.LayerDescriptor{ID: "street", Kind: types.LayerKindOSM, Order: 0, DefaultVisible: true},
	)
	require.NoError(t, bridge.Build(testView(), stack, types.NewFeatureCollection()))
	require.Len(t, bridge.layers, 1)
	_, ok := bridge.layers["street"]
	assert.True(t, ok)
}
