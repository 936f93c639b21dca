package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dinamap/internal/docstore"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dinamap configuration and storage",
	Long: `Create the configuration directory with a default config.yaml and
initialize the configured document store (directories for the fs driver,
the catalog schema for the sqlite driver).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	path, err := ensureDefaultConfigFile(configDir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()
	store, err := docstore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize docstore: %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("finalize docstore: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "dinamap initialized (%s docstore)\nconfig: %s\n", store.Driver(), path)
	return nil
}
