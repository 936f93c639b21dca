package types

import "sort"

// Layer kinds. Values match the layer configuration document's kind field.
const (
	LayerKindOSM         = "osm"
	LayerKindSatellite   = "satellite"
	LayerKindRasterImage = "raster-image"
)

// validLayerKinds is the set of recognized layer kind values.
var validLayerKinds = map[string]bool{
	LayerKindOSM:         true,
	LayerKindSatellite:   true,
	LayerKindRasterImage: true,
}

// Attribution credits the provider of a basemap layer.
type Attribution struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// LayerDescriptor configures one basemap layer. ID is the only externally
// referenced key: Order may be renumbered on re-sort but ID never changes.
type LayerDescriptor struct {
	ID             string      `json:"id"`
	Kind           string      `json:"kind"`
	Label          string      `json:"label"`
	Order          int         `json:"order"`
	Visible        bool        `json:"visible"`
	DefaultVisible bool        `json:"defaultVisible"`
	SourceURL      string      `json:"sourceUrl,omitempty"`
	Attribution    Attribution `json:"attribution,omitempty"`
	MaxZoom        int         `json:"maxZoom,omitempty"`
	CapturedOn     string      `json:"capturedOn,omitempty"` // YYYY-MM-DD, raster captures only
}

// Validate checks a single descriptor: recognized kind, and a source URL
// for the kinds that need one.
func (d LayerDescriptor) Validate() error {
	if !validLayerKinds[d.Kind] {
		return ErrUnknownLayerKind
	}
	if d.Kind != LayerKindOSM && d.SourceURL == "" {
		return ErrMissingSourceURL
	}
	return nil
}

// LayerStack is the ordered list of basemap layer descriptors plus their
// current visibility. Operations are pure: they return a new stack.
type LayerStack struct {
	layers []LayerDescriptor
}

// NewLayerStack builds a stack from descriptors, initializing each layer's
// visibility to its configured default.
func NewLayerStack(layers ...LayerDescriptor) LayerStack {
	out := append([]LayerDescriptor(nil), layers...)
	for i := range out {
		out[i].Visible = out[i].DefaultVisible
	}
	return LayerStack{layers: out}
}

// Layers returns a copy of the descriptors in configuration order.
func (s LayerStack) Layers() []LayerDescriptor {
	return append([]LayerDescriptor(nil), s.layers...)
}

// Len returns the number of layers in the stack.
func (s LayerStack) Len() int { return len(s.layers) }

// Find returns the descriptor with the given id and whether it exists.
func (s LayerStack) Find(id string) (LayerDescriptor, bool) {
	for _, l := range s.layers {
		if l.ID == id {
			return l, true
		}
	}
	return LayerDescriptor{}, false
}

// Toggle flips the visibility of the layer with the given id.
// Returns ErrLayerNotFound if the id is absent.
func (s LayerStack) Toggle(id string) (LayerStack, error) {
	idx := -1
	for i := range s.layers {
		if s.layers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrLayerNotFound
	}
	out := append([]LayerDescriptor(nil), s.layers...)
	out[idx].Visible = !out[idx].Visible
	return LayerStack{layers: out}, nil
}

// SortedByOrder returns the descriptors in ascending paint order. Two
// descriptors sharing an order value is a startup-time configuration
// defect: it fails with ErrDuplicateOrder and is not recoverable.
func (s LayerStack) SortedByOrder() ([]LayerDescriptor, error) {
	seen := make(map[int]bool, len(s.layers))
	for _, l := range s.layers {
		if seen[l.Order] {
			return nil, ErrDuplicateOrder
		}
		seen[l.Order] = true
	}
	out := append([]LayerDescriptor(nil), s.layers...)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// DefaultVisibility returns the id to configured-default mapping used to
// initialize display state at session start.
func (s LayerStack) DefaultVisibility() map[string]bool {
	out := make(map[string]bool, len(s.layers))
	for _, l := range s.layers {
		out[l.ID] = l.DefaultVisible
	}
	return out
}

// Visibility returns the id to current-visibility mapping.
func (s LayerStack) Visibility() map[string]bool {
	out := make(map[string]bool, len(s.layers))
	for _, l := range s.layers {
		out[l.ID] = l.Visible
	}
	return out
}

// Validate checks the whole stack at startup: unique ids, unique orders,
// and per-descriptor validity. Any failure halts initialization rather
// than rendering a partially-configured scene.
func (s LayerStack) Validate() error {
	ids := make(map[string]bool, len(s.layers))
	for _, l := range s.layers {
		if err := l.Validate(); err != nil {
			return err
		}
		if ids[l.ID] {
			return ErrDuplicateID
		}
		ids[l.ID] = true
	}
	_, err := s.SortedByOrder()
	return err
}
