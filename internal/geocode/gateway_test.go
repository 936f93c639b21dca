package geocode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinamap/pkg/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeClient struct {
	mu      sync.Mutex
	queries []string
	coord   types.Coordinate
	found   bool
	err     error
}

func (c *fakeClient) Lookup(_ context.Context, query string) (types.Coordinate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	return c.coord, c.found, c.err
}

func (c *fakeClient) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

func TestGatewayBurstFiresOnce(t *testing.T) {
	clock := newFakeClock()
	client := &fakeClient{coord: types.Coordinate{Lat: -8.65, Lng: 115.21}, found: true}
	g := NewGateway(client, 600*time.Millisecond)
	g.now = clock.Now

	coord, ok, err := g.Search(context.Background(), "Bali")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, client.coord, coord)

	clock.Advance(100 * time.Millisecond)
	_, _, err = g.Search(context.Background(), "Bal")
	assert.ErrorIs(t, err, ErrQuerySuppressed)

	clock.Advance(200 * time.Millisecond)
	_, _, err = g.Search(context.Background(), "Bali Indonesia")
	assert.ErrorIs(t, err, ErrQuerySuppressed)

	assert.Equal(t, []string{"Bali"}, client.Queries(), "a burst reaches the service exactly once")
}

func TestGatewayTrailingBoundaryAdmitsNextBurst(t *testing.T) {
	clock := newFakeClock()
	client := &fakeClient{found: true}
	g := NewGateway(client, 600*time.Millisecond)
	g.now = clock.Now

	_, _, err := g.Search(context.Background(), "Bali")
	require.NoError(t, err)

	clock.Advance(600 * time.Millisecond)
	_, ok, err := g.Search(context.Background(), "Ubud")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Bali", "Ubud"}, client.Queries())
}

func TestGatewayMissAndFailureAreNotFatal(t *testing.T) {
	clock := newFakeClock()
	client := &fakeClient{found: false}
	g := NewGateway(client, 600*time.Millisecond)
	g.now = clock.Now

	_, ok, err := g.Search(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(time.Second)
	client.err = errors.New("connection refused")
	_, ok, err = g.Search(context.Background(), "Bali")
	require.NoError(t, err, "a failed lookup reports no location found, not an error")
	assert.False(t, ok)
}

// blockingClient stalls its first lookup until released; later lookups
// answer immediately.
type blockingClient struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClient) Lookup(_ context.Context, _ string) (types.Coordinate, bool, error) {
	c.mu.Lock()
	c.calls++
	first := c.calls == 1
	c.mu.Unlock()
	if first {
		close(c.entered)
		<-c.release
	}
	return types.Coordinate{Lat: -8.5, Lng: 115.26}, true, nil
}

func TestGatewayDiscardsSupersededResult(t *testing.T) {
	clock := newFakeClock()
	client := &blockingClient{entered: make(chan struct{}), release: make(chan struct{})}
	g := NewGateway(client, 600*time.Millisecond)
	g.now = clock.Now

	staleErr := make(chan error, 1)
	go func() {
		_, _, err := g.Search(context.Background(), "Bali")
		staleErr <- err
	}()
	<-client.entered

	// The first lookup is still in flight when the window rolls over and
	// a newer query fires.
	clock.Advance(time.Second)
	_, ok, err := g.Search(context.Background(), "Ubud")
	require.NoError(t, err)
	assert.True(t, ok)

	close(client.release)
	assert.ErrorIs(t, <-staleErr, ErrResultSuperseded, "the older in-flight result must be dropped")
}

func TestGatewayDefaultWindow(t *testing.T) {
	g := NewGateway(&fakeClient{}, 0)
	assert.Equal(t, types.DefaultDebounceWindow, g.window)
}
