package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dinamap/internal/geojson"
)

var (
	docsPullOutput string
	docsPushName   string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage saved feature documents",
	Long:  `Docs lists, downloads, and uploads feature documents in the docstore.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved feature documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsPullCmd = &cobra.Command{
	Use:   "pull <name>",
	Short: "Download a feature document",
	Long: `Pull fetches one saved feature document and writes it to a file
(or stdout with -o -).

Example:
  dinamap docs pull features-2025-06-01
  dinamap docs pull features-2025-06-01 -o backup.geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsPull,
}

var docsPushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Upload a feature document",
	Long: `Push validates a local feature document and uploads it under the
configured prefix. The name defaults to the dated export name.

Example:
  dinamap docs push backup.geojson --name survey-north-reef`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsPush,
}

func init() {
	docsPullCmd.Flags().StringVarP(&docsPullOutput, "output", "o", "", "output file (default: document name, - for stdout)")
	docsPushCmd.Flags().StringVar(&docsPushName, "name", "", "document name (default: dated export name)")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsPullCmd)
	docsCmd.AddCommand(docsPushCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()

	catalog, closeStore, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	docs, err := catalog.Documents(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if flagJSON {
		return printJSON(cmd, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents found.")
		return nil
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	fmt.Fprintln(w, "---\t----\t--------")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%d\t%s\n", d.Key, d.Size, d.LastModified.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(line, " "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d document(s)\n", len(docs))
	return nil
}

func runDocsPull(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()

	catalog, closeStore, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	name := args[0]
	data, err := catalog.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("pull %s: %w", name, err)
	}

	out := docsPullOutput
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if out == "" {
		out = name
		if !strings.HasSuffix(out, ".geojson") {
			out += ".geojson"
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s (%d bytes)\n", out, len(data))
	return nil
}

func runDocsPush(cmd *cobra.Command, args []string) error {
	// Reject documents the session would refuse before they reach the store.
	col, data, err := readDocument(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()

	catalog, closeStore, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	name := docsPushName
	if name == "" {
		name = geojson.ExportFilename(time.Now())
	}
	key, err := catalog.Save(ctx, name, data)
	if err != nil {
		return fmt.Errorf("push %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s (%d feature(s)) to %s\n", args[0], col.Len(), key)
	return nil
}
