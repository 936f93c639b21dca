package geocode

import (
	"context"

	"dinamap/pkg/types"
)

// Client looks up a free-text query against a geocoding service. The
// second return value reports whether the service produced a match; a
// clean miss is not an error.
type Client interface {
	Lookup(ctx context.Context, query string) (types.Coordinate, bool, error)
}
