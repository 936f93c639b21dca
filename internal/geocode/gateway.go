package geocode

import (
	"context"
	"errors"
	"sync"
	"time"

	"dinamap/pkg/types"
)

var (
	// ErrQuerySuppressed marks a query absorbed by the debounce window.
	ErrQuerySuppressed = errors.New("query suppressed by debounce window")
	// ErrResultSuperseded marks a lookup whose result arrived after a
	// newer query had already been issued.
	ErrResultSuperseded = errors.New("result superseded by newer query")
)

// Gateway throttles a free-text query stream with leading-edge debounce:
// the first query in a burst fires immediately, queries inside the window
// are suppressed, and the trailing boundary admits the next burst's
// immediate fire. Every accepted lookup carries a sequence number; a
// result whose sequence is no longer the latest issued is discarded.
type Gateway struct {
	mu       sync.Mutex
	client   Client
	window   time.Duration
	now      func() time.Time
	lastFire time.Time
	seq      uint64
}

// NewGateway wraps a client with the given debounce window. A
// non-positive window falls back to the default.
func NewGateway(client Client, window time.Duration) *Gateway {
	if window <= 0 {
		window = types.DefaultDebounceWindow
	}
	return &Gateway{client: client, window: window, now: time.Now}
}

// Search resolves one query through the debounce gate.
//
// A query landing inside the window returns ErrQuerySuppressed without
// touching the client. An accepted lookup whose result is no longer the
// latest returns ErrResultSuperseded. A lookup that fails or matches
// nothing reports not-found with a nil error: from the caller's side
// "no location found" is an answer, not a fault.
func (g *Gateway) Search(ctx context.Context, query string) (types.Coordinate, bool, error) {
	g.mu.Lock()
	t := g.now()
	if !g.lastFire.IsZero() && t.Sub(g.lastFire) < g.window {
		g.mu.Unlock()
		return types.Coordinate{}, false, ErrQuerySuppressed
	}
	g.lastFire = t
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	coord, ok, err := g.client.Lookup(ctx, query)

	g.mu.Lock()
	latest := g.seq
	g.mu.Unlock()
	if seq != latest {
		return types.Coordinate{}, false, ErrResultSuperseded
	}
	if err != nil || !ok {
		return types.Coordinate{}, false, nil
	}
	return coord, true, nil
}
