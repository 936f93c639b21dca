package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinamap/pkg/types"
)

// ContentTypeGeoJSON is the MIME type used for saved feature documents.
const ContentTypeGeoJSON = "application/geo+json"

// ErrNoLayerConfig is returned when the config prefix holds no usable
// layer configuration document.
var ErrNoLayerConfig = errors.New("no layer configuration documents found")

// layerConfigDocument is the wire shape of one layer configuration
// document under the config prefix.
type layerConfigDocument struct {
	UpdatedAt string                  `json:"updatedAt"`
	Layers    []types.LayerDescriptor `json:"layers"`
}

// Catalog wraps a Store with the two well-known key prefixes: layer
// configuration documents and saved feature documents.
type Catalog struct {
	store         Store
	configPrefix  string
	geojsonPrefix string
}

// NewCatalog builds a catalog over store using the configured prefixes.
func NewCatalog(store Store, cfg types.Config) *Catalog {
	return &Catalog{
		store:         store,
		configPrefix:  cfg.ConfigPrefix,
		geojsonPrefix: cfg.GeoJSONPrefix,
	}
}

// Store exposes the underlying document store.
func (c *Catalog) Store() Store { return c.store }

// documentKey applies the geojson prefix and extension exactly once.
func (c *Catalog) documentKey(name string) string {
	key := name
	if !strings.HasSuffix(key, ".geojson") {
		key += ".geojson"
	}
	if !strings.HasPrefix(key, c.geojsonPrefix) {
		key = c.geojsonPrefix + key
	}
	return key
}

// Documents lists the previously saved feature documents by key.
func (c *Catalog) Documents(ctx context.Context) ([]Info, error) {
	infos, err := c.store.List(ctx, c.geojsonPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing feature documents: %w", err)
	}
	out := infos[:0]
	for _, info := range infos {
		if strings.HasSuffix(info.Key, ".geojson") {
			out = append(out, info)
		}
	}
	return out, nil
}

// Save writes a feature document under the given name and returns the full
// key it was stored at.
func (c *Catalog) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := c.documentKey(name)
	if err := c.store.Put(ctx, key, data, ContentTypeGeoJSON); err != nil {
		return "", fmt.Errorf("saving feature document %s: %w", key, err)
	}
	return key, nil
}

// Load fetches a feature document by name or full key.
func (c *Catalog) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := c.store.Get(ctx, c.documentKey(name))
	if err != nil {
		return nil, fmt.Errorf("loading feature document %s: %w", name, err)
	}
	return data, nil
}

// LatestLayerStack lists the layer configuration documents, fetches each,
// and returns the validated stack from the newest one by its updatedAt
// stamp. Validation failures are fatal configuration defects.
func (c *Catalog) LatestLayerStack(ctx context.Context) (types.LayerStack, time.Time, error) {
	infos, err := c.store.List(ctx, c.configPrefix)
	if err != nil {
		return types.LayerStack{}, time.Time{}, fmt.Errorf("listing layer configs: %w", err)
	}

	var (
		latest   *layerConfigDocument
		latestAt time.Time
		found    bool
	)
	for _, info := range infos {
		if !strings.HasSuffix(info.Key, ".json") {
			continue
		}
		data, err := c.store.Get(ctx, info.Key)
		if err != nil {
			return types.LayerStack{}, time.Time{}, fmt.Errorf("fetching layer config %s: %w", info.Key, err)
		}
		var doc layerConfigDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return types.LayerStack{}, time.Time{}, fmt.Errorf("parsing layer config %s: %w", info.Key, err)
		}
		at, err := time.Parse(time.RFC3339, doc.UpdatedAt)
		if err != nil {
			// An unparsable stamp still participates, as the oldest.
			at = time.Time{}
		}
		if !found || at.After(latestAt) {
			docCopy := doc
			latest = &docCopy
			latestAt = at
			found = true
		}
	}
	if !found {
		return types.LayerStack{}, time.Time{}, ErrNoLayerConfig
	}

	stack := types.NewLayerStack(latest.Layers...)
	if err := stack.Validate(); err != nil {
		return types.LayerStack{}, time.Time{}, fmt.Errorf("layer config invalid: %w", err)
	}
	return stack, latestAt, nil
}
