package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bali", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"-8.409518","lon":"115.188919","display_name":"Bali, Indonesia"}]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL)
	coord, ok, err := client.Lookup(context.Background(), "Bali")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -8.409518, coord.Lat, 1e-9)
	assert.InDelta(t, 115.188919, coord.Lng, 1e-9)
}

func TestNominatimLookupNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL)
	_, ok, err := client.Lookup(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNominatimLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"`))
			},
		},
		{
			name: "unparseable coordinate",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"115.2"}]`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewNominatimClient(server.URL)
			_, _, err := client.Lookup(context.Background(), "Bali")
			assert.Error(t, err)
		})
	}
}
