package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dinamap/pkg/types"
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Show the current basemap layer configuration",
	Long: `Layers fetches the newest layer configuration document from the
docstore, validates it, and prints the stack in paint order.

Example:
  dinamap layers
  dinamap layers --json`,
	Args: cobra.NoArgs,
	RunE: runLayers,
}

func runLayers(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()

	catalog, closeStore, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	stack, updatedAt, err := catalog.LatestLayerStack(ctx)
	if err != nil {
		return fmt.Errorf("fetch layer config: %w", err)
	}
	sorted, err := stack.SortedByOrder()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cmd, struct {
			UpdatedAt string                  `json:"updatedAt"`
			Layers    []types.LayerDescriptor `json:"layers"`
		}{updatedAt.Format("2006-01-02T15:04:05Z07:00"), sorted})
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tID\tKIND\tVISIBLE\tSOURCE")
	fmt.Fprintln(w, "-----\t--\t----\t-------\t------")
	for _, l := range sorted {
		source := l.SourceURL
		if len(source) > 48 {
			source = source[:45] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", l.Order, l.ID, l.Kind, l.Visible, source)
	}
	w.Flush()
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(line, " "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s\n", updatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
