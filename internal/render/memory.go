package render

import (
	"errors"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"dinamap/pkg/types"
)

// DefaultPickTolerance is the hit-test radius of the memory engine, in
// meters, roughly matching a finger-sized pick box at site zoom.
const DefaultPickTolerance = 10.0

// ErrNotMounted is returned when layers are added before Mount.
var ErrNotMounted = errors.New("engine is not mounted")

// MemoryEngine is a headless Engine for tests and scripted sessions. It
// records every call the Bridge makes so tests can assert on the resulting
// scene, and implements pick resolution with real geodesic hit-testing.
type MemoryEngine struct {
	mu        sync.Mutex
	mounted   bool
	view      View
	tiles     []*MemoryTileLayer
	vectors   []*MemoryVectorLayer
	listeners map[ListenerID]func(types.Coordinate)
	nextID    ListenerID
	flights   [][]CameraStage
	tolerance float64
}

// MemoryTileLayer records one basemap layer the Bridge constructed.
type MemoryTileLayer struct {
	Spec    TileSpec
	visible bool
	mu      sync.Mutex
}

// SetVisible flips the recorded visibility flag.
func (l *MemoryTileLayer) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

// Visible reports the recorded visibility flag.
func (l *MemoryTileLayer) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// MemoryVectorLayer records the annotation layer contents.
type MemoryVectorLayer struct {
	mu       sync.Mutex
	visible  bool
	features []Rendered
}

// SetVisible flips the recorded visibility flag.
func (l *MemoryVectorLayer) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

// SetFeatures replaces the recorded contents wholesale.
func (l *MemoryVectorLayer) SetFeatures(features []Rendered) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.features = append([]Rendered(nil), features...)
}

// Features returns a copy of the recorded contents.
func (l *MemoryVectorLayer) Features() []Rendered {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Rendered(nil), l.features...)
}

// NewMemoryEngine returns an unmounted memory engine with the default pick
// tolerance.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		listeners: make(map[ListenerID]func(types.Coordinate)),
		tolerance: DefaultPickTolerance,
	}
}

// Mount records the initial view.
func (e *MemoryEngine) Mount(view View) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mounted = true
	e.view = view
	return nil
}

// Unmount detaches the engine and drops the recorded scene.
func (e *MemoryEngine) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mounted = false
	e.tiles = nil
	e.vectors = nil
}

// AddTileLayer appends a recorded basemap layer.
func (e *MemoryEngine) AddTileLayer(spec TileSpec) (Layer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return nil, ErrNotMounted
	}
	layer := &MemoryTileLayer{Spec: spec, visible: spec.Visible}
	e.tiles = append(e.tiles, layer)
	return layer, nil
}

// AddVectorLayer appends the recorded annotation layer.
func (e *MemoryEngine) AddVectorLayer() (VectorLayer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return nil, ErrNotMounted
	}
	layer := &MemoryVectorLayer{visible: true}
	e.vectors = append(e.vectors, layer)
	return layer, nil
}

// OnClick registers a click listener.
func (e *MemoryEngine) OnClick(fn func(types.Coordinate)) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners[e.nextID] = fn
	return e.nextID
}

// RemoveListener unregisters a click listener.
func (e *MemoryEngine) RemoveListener(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, id)
}

// PickAt hit-tests the annotation layers and returns the first rendered
// object within tolerance that carries a back-reference id.
func (e *MemoryEngine) PickAt(at types.Coordinate) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := at.Point()
	for _, layer := range e.vectors {
		for _, r := range layer.Features() {
			if r.RefID == "" {
				continue
			}
			if e.hits(r.Geometry, p) {
				return r.RefID, true
			}
		}
	}
	return "", false
}

// hits tests one rendered geometry against the pick point.
func (e *MemoryEngine) hits(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Point:
		return geo.Distance(geom, p) <= e.tolerance
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.LineString:
		for _, v := range geom {
			if geo.Distance(v, p) <= e.tolerance {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Animate records one camera flight.
func (e *MemoryEngine) Animate(stages ...CameraStage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flights = append(e.flights, append([]CameraStage(nil), stages...))
}

// Click simulates a pointer click, invoking every registered listener.
func (e *MemoryEngine) Click(at types.Coordinate) {
	e.mu.Lock()
	fns := make([]func(types.Coordinate), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(at)
	}
}

// Mounted reports whether the engine is attached.
func (e *MemoryEngine) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted
}

// View returns the last mounted view.
func (e *MemoryEngine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// TileLayers returns the recorded basemap layers in paint order.
func (e *MemoryEngine) TileLayers() []*MemoryTileLayer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*MemoryTileLayer(nil), e.tiles...)
}

// VectorLayers returns the recorded annotation layers in paint order.
func (e *MemoryEngine) VectorLayers() []*MemoryVectorLayer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*MemoryVectorLayer(nil), e.vectors...)
}

// Flights returns the recorded camera animations.
func (e *MemoryEngine) Flights() [][]CameraStage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]CameraStage, 0, len(e.flights))
	for _, f := range e.flights {
		out = append(out, append([]CameraStage(nil), f...))
	}
	return out
}

// ListenerCount reports how many click listeners are registered.
func (e *MemoryEngine) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
