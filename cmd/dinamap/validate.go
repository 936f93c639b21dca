package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a feature document",
	Long: `Validate parses a GeoJSON feature document with the same rules the
session applies on import: the top-level type must be FeatureCollection,
every feature needs an id and a complete geometry, and no two features may
share an id.

Example:
  dinamap validate features-2025-06-01.geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	col, _, err := readDocument(args[0])
	if err != nil {
		return err
	}

	counts := col.CountByCategory()
	if flagJSON {
		return printJSON(cmd, struct {
			Valid      bool           `json:"valid"`
			Features   int            `json:"features"`
			Categories map[string]int `json:"categories"`
		}{true, col.Len(), counts})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid, %d feature(s)\n", args[0], col.Len())
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", category, counts[category])
	}
	return nil
}
