package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dinamap/internal/geocode"
)

// errNoMatch reports a query the geocoder could not resolve.
var errNoMatch = errors.New("no location found")

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>...",
	Short: "Resolve a place query to coordinates",
	Long: `Geocode runs one lookup against the configured geocoding service.

Example:
  dinamap geocode Pemuteran Bali
  dinamap geocode --json "Segara Lestari"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGeocode,
}

func runGeocode(cmd *cobra.Command, args []string) error {
	cfg, err := cliConfig()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(cmd.Context(), contextTimeout)
	defer cancel()

	client := geocode.NewNominatimClient(cfg.GeocoderURL)
	coord, found, err := client.Lookup(ctx, query)
	if err != nil {
		return fmt.Errorf("geocode %q: %w", query, err)
	}
	if !found {
		return fmt.Errorf("%w: %q", errNoMatch, query)
	}

	if flagJSON {
		return printJSON(cmd, struct {
			Query string  `json:"query"`
			Lat   float64 `json:"lat"`
			Lng   float64 `json:"lng"`
		}{query, coord.Lat, coord.Lng})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.6f, %.6f\n", coord.Lat, coord.Lng)
	return nil
}
