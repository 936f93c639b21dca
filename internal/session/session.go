package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"dinamap/internal/geocode"
	"dinamap/internal/geojson"
	"dinamap/internal/render"
	"dinamap/pkg/types"
)

// ErrBadClearToken marks a clear confirmation whose token does not match
// the pending request.
var ErrBadClearToken = errors.New("clear confirmation token does not match pending request")

// NewFeature is the creation-form payload. A nil geometry places a point
// at the armed click coordinate.
type NewFeature struct {
	Category      string
	Label         string
	Notes         string
	ObservedFrom  string
	ObservedUntil string
	Geometry      orb.Geometry
}

// Options configures a session.
type Options struct {
	// OnEffect receives form and marker effects as they are emitted.
	// Called outside the session's internal lock; may be nil.
	OnEffect func(Effect)
}

// Session serializes all user events behind one mutex and keeps the
// feature collection, the layer stack, the interaction machine, and the
// rendered scene mutually consistent: every store mutation reconciles the
// bridge before the mutating call returns.
type Session struct {
	mu       sync.Mutex
	searchMu sync.Mutex
	cfg      types.Config
	col      types.FeatureCollection
	stack    types.LayerStack
	machine  Machine
	bridge   *render.Bridge
	gateway  *geocode.Gateway
	opts     Options

	clearToken string

	newID func() string
	now   func() time.Time
}

// New assembles a session over an engine and a geocoding client. The
// stack's visibility starts at its configured defaults; the collection
// starts empty.
func New(cfg types.Config, stack types.LayerStack, engine render.Engine, client geocode.Client, opts Options) *Session {
	s := &Session{
		cfg:     cfg,
		col:     types.NewFeatureCollection(),
		stack:   stack,
		machine: NewMachine(),
		gateway: geocode.NewGateway(client, cfg.DebounceWindow),
		opts:    opts,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
		now:     time.Now,
	}
	s.bridge = render.New(engine, render.Options{
		Resolve:       s.resolve,
		OnClick:       s.onClick,
		FlyToDuration: cfg.FlyToDuration,
	})
	return s
}

// resolve answers the bridge's pick lookups from the authoritative
// collection. Runs on the engine's click path, outside session methods.
func (s *Session) resolve(id string) (types.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Find(id)
}

// Start builds the rendered scene at the configured home framing. A
// duplicate-order or unknown-kind stack fails here, before anything is
// rendered.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := render.View{Center: s.cfg.HomeCenter, Zoom: s.cfg.HomeZoom}
	if err := s.bridge.Build(view, s.stack, s.col); err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	return nil
}

// Close tears the scene down. The interaction state dies with the
// session; only exported documents survive it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge.Teardown()
	s.machine = NewMachine()
}

// onClick routes a resolved engine click through the machine.
func (s *Session) onClick(ev render.ClickEvent) {
	s.mu.Lock()
	machine, eff := s.machine.Click(ev.Coordinate, ev.FeatureID)
	s.machine = machine
	switch eff.Kind {
	case EffectOpenCreateForm, EffectMarkCoordinate:
		at := eff.Coordinate
		s.bridge.SetCoordinateMarker(&at)
	}
	s.mu.Unlock()
	s.emit(eff)
}

func (s *Session) emit(eff Effect) {
	if eff.Kind == EffectNone || eff.Kind == "" || s.opts.OnEffect == nil {
		return
	}
	s.opts.OnEffect(eff)
}

// Machine returns a snapshot of the interaction state.
func (s *Session) Machine() Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine
}

// Collection returns a snapshot of the feature collection.
func (s *Session) Collection() types.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col
}

// Stack returns a snapshot of the layer stack.
func (s *Session) Stack() types.LayerStack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack
}

// RequestAddFeature arms the session: the next click places a feature.
func (s *Session) RequestAddFeature() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = s.machine.RequestAdd()
	s.bridge.SetCoordinateMarker(nil)
}

// SubmitNewFeature commits the creation form. The feature gets a fresh
// id and creation timestamps; the scene is reconciled before returning.
func (s *Session) SubmitNewFeature(input NewFeature) (types.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	geometry := input.Geometry
	if geometry == nil {
		at, ok := s.machine.LastClick()
		if !ok {
			return types.Feature{}, fmt.Errorf("%w: no geometry and no placement click", types.ErrInvalidGeometry)
		}
		geometry = at.Point()
	}
	f := types.Feature{
		ID:            s.newID(),
		Category:      input.Category,
		Label:         input.Label,
		Notes:         input.Notes,
		ObservedFrom:  input.ObservedFrom,
		ObservedUntil: input.ObservedUntil,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
		Geometry:      geometry,
	}
	if err := f.Validate(); err != nil {
		return types.Feature{}, err
	}
	col, err := s.col.Add(f)
	if err != nil {
		return types.Feature{}, err
	}
	s.col = col
	s.machine = s.machine.CloseForm()
	s.bridge.SetCoordinateMarker(nil)
	s.bridge.SyncFeatures(s.col)
	return f, nil
}

// SubmitFeatureUpdate commits the edit form for one feature.
func (s *Session) SubmitFeatureUpdate(id string, f types.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, err := s.col.Update(id, f)
	if err != nil {
		return err
	}
	s.col = col
	s.machine = s.machine.CloseForm()
	s.bridge.SyncFeatures(s.col)
	return nil
}

// DeleteFeature removes a feature. Deleting the feature currently being
// edited also closes the edit form, and the feature is gone from the next
// render pass before this call returns.
func (s *Session) DeleteFeature(id string) error {
	s.mu.Lock()
	col, err := s.col.Remove(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.col = col
	var eff Effect
	if editing, ok := s.machine.EditingID(); ok && editing == id {
		s.machine = s.machine.CloseForm()
		eff = Effect{Kind: EffectCloseForm, FeatureID: id}
	}
	s.bridge.SyncFeatures(s.col)
	s.mu.Unlock()
	s.emit(eff)
	return nil
}

// CancelForm abandons any open form without committing.
func (s *Session) CancelForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = s.machine.CloseForm()
	s.bridge.SetCoordinateMarker(nil)
}

// ToggleLayer flips one layer's visibility and reconciles the rendered
// scene in place, without a rebuild.
func (s *Session) ToggleLayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack, err := s.stack.Toggle(id)
	if err != nil {
		return err
	}
	s.stack = stack
	s.bridge.SyncVisibility(s.stack)
	return nil
}

// Search resolves a free-text query through the debounce gateway and, on
// a match, records the target and flies the camera to it. Suppressed and
// superseded queries, misses, and lookup failures all report found=false
// with a nil error.
//
// searchMu is held across the whole lookup so concurrent searches resolve
// in issue order: an older in-flight result can never land after a newer
// one. The session mutex stays free during the network round trip.
func (s *Session) Search(ctx context.Context, query string) (types.Coordinate, bool, error) {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	target, found, err := s.gateway.Search(ctx, query)
	if errors.Is(err, geocode.ErrQuerySuppressed) || errors.Is(err, geocode.ErrResultSuperseded) {
		return types.Coordinate{}, false, nil
	}
	if err != nil {
		return types.Coordinate{}, false, err
	}
	if !found {
		return types.Coordinate{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine = s.machine.SetSearchTarget(target)
	s.bridge.FlyTo(target)
	return target, true, nil
}

// Export serializes the collection and returns the document bytes plus
// the dated export filename.
func (s *Session) Export() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := geojson.Marshal(s.col)
	if err != nil {
		return nil, "", err
	}
	return data, geojson.ExportFilename(s.now()), nil
}

// Import parses a feature document and replaces the whole collection.
// All-or-nothing: any parse or validation failure leaves the current
// collection and scene untouched.
func (s *Session) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	imported, err := geojson.Unmarshal(data)
	if err != nil {
		return err
	}
	col, err := s.col.Replace(imported)
	if err != nil {
		return err
	}
	s.col = col
	s.bridge.SyncFeatures(s.col)
	return nil
}

// RequestClear begins the two-phase clear of the whole collection and
// returns the confirmation token the destructive half requires.
func (s *Session) RequestClear() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearToken = s.newID()
	return s.clearToken
}

// ConfirmClear performs the clear if token matches the pending request.
// A matching token is consumed; a mismatch leaves the pending request
// open and the collection untouched.
func (s *Session) ConfirmClear(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearToken == "" || token != s.clearToken {
		return ErrBadClearToken
	}
	s.clearToken = ""
	col, err := s.col.Replace(types.NewFeatureCollection())
	if err != nil {
		return err
	}
	s.col = col
	s.machine = s.machine.CloseForm()
	s.bridge.SetCoordinateMarker(nil)
	s.bridge.SyncFeatures(s.col)
	return nil
}
