package main

import (
	"github.com/spf13/cobra"

	"dinamap/internal/paths"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:   "dinamap",
	Short: "Dinamap manages map annotation documents and layer configuration",
	Long: `Dinamap is the field tooling for the map-annotation session core:
it validates and transfers feature documents, inspects the basemap layer
configuration, and resolves place queries against the geocoder.`,
	Version: version,
	// Subcommands report their own errors; repeating usage drowns them.
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(layersCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(geocodeCmd)
}

// resolveConfigDir returns the configuration directory from flag, env, or
// the platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
