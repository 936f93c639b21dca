package render

import (
	"time"

	"github.com/paulmach/orb"

	"dinamap/pkg/types"
)

// TileKind selects how the engine sources a basemap layer.
type TileKind int

const (
	// TileOSM is the engine's built-in street map source.
	TileOSM TileKind = iota
	// TileXYZ is a tiled imagery source addressed by a {z}/{y}/{x} URL.
	TileXYZ
	// TileRaster is a single geo-referenced raster image source.
	TileRaster
)

// TileSpec describes one basemap layer to the engine.
type TileSpec struct {
	Kind        TileKind
	URL         string // unused for TileOSM
	Attribution string
	MaxZoom     int // 0 means unlimited
	Visible     bool
}

// View is the initial camera framing.
type View struct {
	Center types.Coordinate
	Zoom   float64
}

// CameraStage is one leg of a camera animation. Nil fields are left
// unchanged by the stage.
type CameraStage struct {
	Center   *types.Coordinate
	Zoom     *float64
	Duration time.Duration
}

// Rendered is a disposable projection of a domain feature (or of the
// transient coordinate marker, with an empty RefID). RefID is the only
// link back to the domain; the geometry and label copies here may be stale
// the moment a concurrent edit lands.
type Rendered struct {
	RefID    string
	Category string
	Label    string
	Geometry orb.Geometry
}

// Layer is a handle to one renderable basemap layer.
type Layer interface {
	SetVisible(visible bool)
}

// VectorLayer is the handle to the dedicated top-most annotation layer.
type VectorLayer interface {
	Layer
	// SetFeatures replaces the layer's contents wholesale.
	SetFeatures(features []Rendered)
}

// ListenerID identifies a registered click listener for removal.
type ListenerID int

// Engine is the rendering collaborator boundary. Only the Bridge may call
// it; every other component goes through the Bridge's reconciliation and
// pick-resolution contracts.
type Engine interface {
	// Mount attaches the engine to its display surface with the initial
	// camera framing.
	Mount(view View) error
	// Unmount detaches the engine from its display surface.
	Unmount()
	// AddTileLayer appends a basemap layer; paint order is call order.
	AddTileLayer(spec TileSpec) (Layer, error)
	// AddVectorLayer appends the top-most annotation layer.
	AddVectorLayer() (VectorLayer, error)
	// OnClick registers a pointer click listener.
	OnClick(fn func(at types.Coordinate)) ListenerID
	// RemoveListener unregisters a click listener.
	RemoveListener(id ListenerID)
	// PickAt returns the back-reference id of a rendered object within
	// pick tolerance of the coordinate, if any.
	PickAt(at types.Coordinate) (refID string, ok bool)
	// Animate drives the camera through the given stages in order.
	Animate(stages ...CameraStage)
}
