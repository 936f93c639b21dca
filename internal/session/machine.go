package session

import (
	"dinamap/pkg/types"
)

// Mode is the interaction mode of a session.
type Mode string

const (
	// ModeIdle accepts coordinate readouts and feature edits.
	ModeIdle Mode = "idle"
	// ModeArmedForAdd interprets the next map click as a placement
	// request for a new feature.
	ModeArmedForAdd Mode = "armed_for_add"
	// ModeEditing has an edit form open for one existing feature.
	ModeEditing Mode = "editing"
)

// EffectKind names a side effect a transition asks the embedder to
// perform.
type EffectKind string

const (
	EffectNone           EffectKind = "none"
	EffectOpenCreateForm EffectKind = "open_create_form"
	EffectOpenEditForm   EffectKind = "open_edit_form"
	EffectMarkCoordinate EffectKind = "mark_coordinate"
	EffectCloseForm      EffectKind = "close_form"
)

// Effect is the outward-facing result of a transition. Coordinate is set
// for create-form and marker effects, FeatureID for edit-form effects.
type Effect struct {
	Kind       EffectKind
	Coordinate types.Coordinate
	FeatureID  string
}

// Machine is the pure interaction state machine. Transitions return a new
// machine value plus the effect the embedder should perform; the machine
// itself never touches the collection, the stack, or the bridge.
type Machine struct {
	mode             Mode
	editingID        string
	lastClick        *types.Coordinate
	lastSearchTarget *types.Coordinate
}

// NewMachine returns an idle machine.
func NewMachine() Machine {
	return Machine{mode: ModeIdle}
}

// Mode returns the current interaction mode.
func (m Machine) Mode() Mode { return m.mode }

// EditingID returns the feature id being edited, if any.
func (m Machine) EditingID() (string, bool) {
	return m.editingID, m.mode == ModeEditing
}

// LastClick returns the most recent click coordinate, if any.
func (m Machine) LastClick() (types.Coordinate, bool) {
	if m.lastClick == nil {
		return types.Coordinate{}, false
	}
	return *m.lastClick, true
}

// LastSearchTarget returns the most recent resolved search target, if any.
func (m Machine) LastSearchTarget() (types.Coordinate, bool) {
	if m.lastSearchTarget == nil {
		return types.Coordinate{}, false
	}
	return *m.lastSearchTarget, true
}

// RequestAdd arms the machine for feature placement. Any open form closes
// and the click readout resets so a stale coordinate cannot leak into the
// creation form.
func (m Machine) RequestAdd() Machine {
	m.mode = ModeArmedForAdd
	m.editingID = ""
	m.lastClick = nil
	return m
}

// Click routes one map click. featureID is the resolved feature under the
// pointer, or empty for a bare coordinate.
//
// A hit on an existing feature wins over the coordinate readout, except
// while armed for add: there the click is always a placement request,
// even directly on top of an existing feature, so placing new features is
// never blocked by old ones.
func (m Machine) Click(at types.Coordinate, featureID string) (Machine, Effect) {
	if m.mode == ModeArmedForAdd {
		m.mode = ModeIdle
		m.lastClick = &at
		return m, Effect{Kind: EffectOpenCreateForm, Coordinate: at}
	}
	if featureID != "" {
		m.mode = ModeEditing
		m.editingID = featureID
		return m, Effect{Kind: EffectOpenEditForm, FeatureID: featureID}
	}
	m.lastClick = &at
	return m, Effect{Kind: EffectMarkCoordinate, Coordinate: at}
}

// CloseForm returns to idle from any form-bearing mode. Saving,
// cancelling, and deleting all funnel through here.
func (m Machine) CloseForm() Machine {
	m.mode = ModeIdle
	m.editingID = ""
	return m
}

// SetSearchTarget records a resolved geocoding result.
func (m Machine) SetSearchTarget(at types.Coordinate) Machine {
	m.lastSearchTarget = &at
	return m
}
