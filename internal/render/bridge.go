package render

import (
	"fmt"
	"strings"
	"time"

	"dinamap/pkg/types"
)

// Camera framing levels for the three-stage fly-to. The zoom-out level is
// wide enough to keep long hops from disorienting the user; the zoom-in
// level frames a site.
const (
	FlyToWideZoom  = 7.0
	FlyToCloseZoom = 13.0
)

// ClickEvent is a pick-resolved pointer click. FeatureID is empty when the
// click did not land on a live domain feature.
type ClickEvent struct {
	Coordinate types.Coordinate
	FeatureID  string
}

// Options configures a Bridge.
type Options struct {
	// Resolve looks up the authoritative feature by id in the current
	// collection. A rendered object whose id no longer resolves is
	// treated as no hit, never as an error.
	Resolve func(id string) (types.Feature, bool)
	// OnClick receives pick-resolved click events.
	OnClick func(ev ClickEvent)
	// FlyToDuration is the total length of the three-stage search
	// animation. Zero falls back to the configured default.
	FlyToDuration time.Duration
}

// Bridge owns the rendering engine lifecycle and keeps the rendered scene
// consistent with domain state. It maintains an explicit id-to-layer
// mapping; nothing depends on the engine's internal storage order.
type Bridge struct {
	engine  Engine
	opts    Options
	layers  map[string]Layer
	overlay VectorLayer

	listener    ListenerID
	hasListener bool

	built    bool
	buildKey string

	marker       *types.Coordinate
	lastFeatures []types.Feature
}

// New returns an unbuilt bridge over the given engine.
func New(engine Engine, opts Options) *Bridge {
	if opts.FlyToDuration <= 0 {
		opts.FlyToDuration = types.DefaultFlyToDuration
	}
	return &Bridge{engine: engine, opts: opts, layers: make(map[string]Layer)}
}

// identity keys one (homeCenter, homeZoom, layer stack) build.
func identity(view View, stack types.LayerStack) string {
	parts := make([]string, 0, stack.Len()+1)
	parts = append(parts, fmt.Sprintf("%.6f,%.6f@%.2f", view.Center.Lat, view.Center.Lng, view.Zoom))
	for _, l := range stack.Layers() {
		parts = append(parts, fmt.Sprintf("%s#%d", l.ID, l.Order))
	}
	return strings.Join(parts, "|")
}

// tileSpec translates a layer descriptor for the engine. An unrecognized
// kind is a configuration or document mismatch and fails the build.
func tileSpec(l types.LayerDescriptor) (TileSpec, error) {
	switch l.Kind {
	case types.LayerKindOSM:
		return TileSpec{Kind: TileOSM, Visible: l.Visible}, nil
	case types.LayerKindSatellite:
		return TileSpec{
			Kind:        TileXYZ,
			URL:         l.SourceURL,
			Attribution: l.Attribution.Text,
			MaxZoom:     l.MaxZoom,
			Visible:     l.Visible,
		}, nil
	case types.LayerKindRasterImage:
		return TileSpec{
			Kind:        TileRaster,
			URL:         l.SourceURL,
			Attribution: l.Attribution.Text,
			Visible:     l.Visible,
		}, nil
	default:
		return TileSpec{}, fmt.Errorf("%w: %q (layer %s)", types.ErrUnknownLayerKind, l.Kind, l.ID)
	}
}

// Build constructs the rendered scene: one renderable layer per descriptor
// in ascending paint order, then exactly one top-most vector layer holding
// the coordinate marker and the feature collection. Build runs once per
// distinct (center, zoom, stack identity); repeating it with the same
// identity is a no-op, a new identity tears the old scene down first.
func (b *Bridge) Build(view View, stack types.LayerStack, col types.FeatureCollection) error {
	key := identity(view, stack)
	if b.built && b.buildKey == key {
		return nil
	}
	if b.built {
		b.Teardown()
	}

	sorted, err := stack.SortedByOrder()
	if err != nil {
		return err
	}
	specs := make([]TileSpec, 0, len(sorted))
	for _, l := range sorted {
		spec, err := tileSpec(l)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	if err := b.engine.Mount(view); err != nil {
		return fmt.Errorf("mounting engine: %w", err)
	}
	for i, l := range sorted {
		layer, err := b.engine.AddTileLayer(specs[i])
		if err != nil {
			b.unwind()
			return fmt.Errorf("adding layer %s: %w", l.ID, err)
		}
		b.layers[l.ID] = layer
	}
	overlay, err := b.engine.AddVectorLayer()
	if err != nil {
		b.unwind()
		return fmt.Errorf("adding annotation layer: %w", err)
	}
	b.overlay = overlay

	b.listener = b.engine.OnClick(b.handleClick)
	b.hasListener = true
	b.built = true
	b.buildKey = key
	b.SyncFeatures(col)
	return nil
}

// handleClick resolves a raw engine click into a domain click event. The
// engine's pick answers only with a back-reference id; the authoritative
// feature comes from the collection lookup. An id deleted between render
// and click degrades to a bare coordinate click.
func (b *Bridge) handleClick(at types.Coordinate) {
	if b.opts.OnClick == nil {
		return
	}
	ev := ClickEvent{Coordinate: at}
	if refID, ok := b.engine.PickAt(at); ok && b.opts.Resolve != nil {
		if _, live := b.opts.Resolve(refID); live {
			ev.FeatureID = refID
		}
	}
	b.opts.OnClick(ev)
}

// SyncVisibility sets each renderable layer's visibility flag to match its
// descriptor. O(layers); never rebuilds.
func (b *Bridge) SyncVisibility(stack types.LayerStack) {
	for id, visible := range stack.Visibility() {
		if layer, ok := b.layers[id]; ok {
			layer.SetVisible(visible)
		}
	}
}

// SyncFeatures clears and repopulates the annotation layer from the full
// collection. Collections are small; correctness, not incremental
// performance, is the contract here.
func (b *Bridge) SyncFeatures(col types.FeatureCollection) {
	b.lastFeatures = col.Features()
	b.repopulate()
}

// SetCoordinateMarker places (or, with nil, removes) the single transient
// coordinate marker on the annotation layer.
func (b *Bridge) SetCoordinateMarker(at *types.Coordinate) {
	b.marker = at
	b.repopulate()
}

func (b *Bridge) repopulate() {
	if b.overlay == nil {
		return
	}
	rendered := make([]Rendered, 0, len(b.lastFeatures)+1)
	for _, f := range b.lastFeatures {
		rendered = append(rendered, Rendered{
			RefID:    f.ID,
			Category: f.Category,
			Label:    f.Label,
			Geometry: f.Geometry,
		})
	}
	if b.marker != nil {
		rendered = append(rendered, Rendered{Geometry: b.marker.Point()})
	}
	b.overlay.SetFeatures(rendered)
}

// FlyTo drives the camera to a search target in three stages: a quarter of
// the duration zooming out to the wide framing, half panning to the
// target, and a quarter zooming back in.
func (b *Bridge) FlyTo(target types.Coordinate) {
	wide := FlyToWideZoom
	closeIn := FlyToCloseZoom
	total := b.opts.FlyToDuration
	b.engine.Animate(
		CameraStage{Zoom: &wide, Duration: total / 4},
		CameraStage{Center: &target, Duration: total / 2},
		CameraStage{Zoom: &closeIn, Duration: total / 4},
	)
}

// Teardown detaches the engine and removes the click listener. Skipping
// either leaks listeners that double-fire on the next mount.
func (b *Bridge) Teardown() {
	if b.hasListener {
		b.engine.RemoveListener(b.listener)
		b.hasListener = false
	}
	if b.built {
		b.engine.Unmount()
	}
	b.layers = make(map[string]Layer)
	b.overlay = nil
	b.marker = nil
	b.lastFeatures = nil
	b.built = false
	b.buildKey = ""
}

// unwind discards a half-constructed scene after a build failure. Layer
// handles collected so far belong to the unmounted scene and must not
// survive into the next build.
func (b *Bridge) unwind() {
	b.engine.Unmount()
	b.layers = make(map[string]Layer)
	b.overlay = nil
}

// Built reports whether the scene is currently constructed.
func (b *Bridge) Built() bool { return b.built }
