package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/search"
)

var (
	importersFile    string
	importersColumns = search.DefaultColumnMap
)

var searchImportersCmd = &cobra.Command{
	Use:   "importers",
	Short: "Load businesses from an importer registry export (CSV or XLSX)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := search.NewImporterFileSearcher(importersFile, importersColumns, cfg.Search.DefaultScore)
		return runSearch(cmd.Context(), s)
	},
}

func init() {
	f := searchImportersCmd.Flags()
	f.StringVar(&importersFile, "file", "", "path to the registry export (required)")
	f.StringVar(&importersColumns.Name, "col-name", importersColumns.Name, "column holding the business name")
	f.StringVar(&importersColumns.Street, "col-street", importersColumns.Street, "column holding the street address")
	f.StringVar(&importersColumns.City, "col-city", importersColumns.City, "column holding the city")
	f.StringVar(&importersColumns.Province, "col-province", importersColumns.Province, "column holding the province")
	f.StringVar(&importersColumns.Postal, "col-postal", importersColumns.Postal, "column holding the postal code")
	f.StringVar(&importersColumns.Phone, "col-phone", importersColumns.Phone, "column holding the phone number")
	f.StringVar(&importersColumns.Website, "col-website", importersColumns.Website, "column holding the website")
	f.StringVar(&importersColumns.Industry, "col-industry", importersColumns.Industry, "column holding the industry or commodity")
	_ = searchImportersCmd.MarkFlagRequired("file")
	searchCmd.AddCommand(searchImportersCmd)
}
