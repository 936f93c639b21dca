// Shared helpers for dinamap CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dinamap/internal/docstore"
	"dinamap/internal/geojson"
	"dinamap/pkg/types"
)

// readDocument reads and decodes a feature document, applying the same
// rules the session applies on import, including the unique-id check that
// lives in Replace rather than in the codec.
func readDocument(path string) (types.FeatureCollection, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FeatureCollection{}, nil, fmt.Errorf("read document: %w", err)
	}
	col, err := geojson.Unmarshal(data)
	if err != nil {
		return types.FeatureCollection{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := types.NewFeatureCollection().Replace(col); err != nil {
		return types.FeatureCollection{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return col, data, nil
}

// cliConfig resolves the config directory and loads the configuration.
func cliConfig() (types.Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	return loadConfig(configDir)
}

// openCatalog loads the configuration and opens the document catalog over
// the configured store. The caller must call the returned close func.
func openCatalog(ctx context.Context) (*docstore.Catalog, func(), error) {
	cfg, err := cliConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := docstore.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open docstore: %w", err)
	}
	closeFn := func() {
		if closer, ok := store.(io.Closer); ok {
			closer.Close()
		}
	}
	return docstore.NewCatalog(store, cfg), closeFn, nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
