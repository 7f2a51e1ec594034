package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/pkg/dir411"
)

var search411Pages int

var search411Cmd = &cobra.Command{
	Use:   "411",
	Short: "Scrape the 411 business directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if searchTerm == "" {
			return eris.New("--term is required")
		}

		opts := []dir411.Option{}
		if cfg.Dir411.BaseURL != "" {
			opts = append(opts, dir411.WithBaseURL(cfg.Dir411.BaseURL))
		}
		client := dir411.NewClient(opts...)

		pages := search411Pages
		if pages == 0 {
			pages = cfg.Dir411.MaxPages
		}
		s := search.NewDir411Searcher(client, cfg.Search.Delay(), cfg.Search.DefaultScore, pages)
		return runSearch(cmd.Context(), s)
	},
}

func init() {
	search411Cmd.Flags().IntVar(&search411Pages, "pages", 0, "max result pages to fetch (default from config)")
	searchCmd.AddCommand(search411Cmd)
}
