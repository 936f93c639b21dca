package types

import "errors"

// Feature collection operation errors.
var (
	ErrDuplicateID = errors.New("feature id already present")
	ErrIDMismatch  = errors.New("feature id does not match argument")
	ErrNotFound    = errors.New("feature not found")
	ErrInvalidID   = errors.New("invalid feature id")
)

// Layer stack errors. ErrDuplicateOrder and ErrUnknownLayerKind indicate a
// configuration defect and abort initialization; they are never recovered
// from at runtime.
var (
	ErrLayerNotFound    = errors.New("layer not found")
	ErrDuplicateOrder   = errors.New("duplicate layer order")
	ErrUnknownLayerKind = errors.New("unknown layer kind")
	ErrMissingSourceURL = errors.New("layer source url required")
)

// Document errors, both recoverable: the current collection is left
// untouched when an import fails.
var (
	ErrInvalidDocument = errors.New("document is not a FeatureCollection")
	ErrSchemaError     = errors.New("document feature missing required fields")
)

// Validation errors for feature fields.
var (
	ErrInvalidCategory = errors.New("invalid feature category")
	ErrInvalidGeometry = errors.New("unsupported geometry type")
)
