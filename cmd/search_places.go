package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/pkg/places"
)

var searchPlacesCmd = &cobra.Command{
	Use:   "places",
	Short: "Search the Google Places API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if searchTerm == "" {
			return eris.New("--term is required")
		}
		if cfg.Places.Key == "" {
			return eris.New("places API key is required (PROSPECT_PLACES_KEY)")
		}

		opts := []places.Option{}
		if cfg.Places.BaseURL != "" {
			opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
		}
		client := places.NewClient(cfg.Places.Key, opts...)

		s := search.NewPlacesSearcher(client, cfg.Search.DefaultScore, cfg.Search.MaxResults)
		return runSearch(cmd.Context(), s)
	},
}

func init() {
	searchCmd.AddCommand(searchPlacesCmd)
}
