package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/search"
)

var (
	searchTerm     string
	searchLocation string
	searchDryRun   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a directory source and store the results",
}

// runSearch executes a searcher and persists its results, or prints them with
// --dry-run. Shared by every search subcommand.
func runSearch(ctx context.Context, s search.Searcher) error {
	q := search.Query{Term: searchTerm, Location: searchLocation}
	records, err := s.Search(ctx, q)
	if err != nil {
		return err
	}
	zap.L().Info("search complete",
		zap.String("source", s.Name()),
		zap.Int("results", len(records)),
	)

	if searchDryRun {
		printRecords(records)
		return nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	created, observed, err := persistRecords(ctx, st, records)
	if err != nil {
		return err
	}
	zap.L().Info("search results stored",
		zap.String("source", s.Name()),
		zap.Int("new", created),
		zap.Int("deduped", len(records)-created),
		zap.Int64("observations", observed),
	)
	return nil
}

// persistRecords upserts each record and appends contact-field observations
// carrying the record's source and confidence.
func persistRecords(ctx context.Context, st storeWriter, records []model.BusinessRecord) (int, int64, error) {
	var (
		created int
		obs     []model.Observation
	)
	for i := range records {
		rec := &records[i]
		id, isNew, err := st.UpsertBusiness(ctx, rec)
		if err != nil {
			return created, 0, eris.Wrapf(err, "store %q", rec.Name)
		}
		rec.ID = id
		if isNew {
			created++
		}
		for field, value := range map[string]string{
			model.FieldPhone:   rec.Phone,
			model.FieldWebsite: rec.Website,
		} {
			if value == "" {
				continue
			}
			obs = append(obs, model.Observation{
				BusinessID: id,
				Field:      field,
				Value:      value,
				Confidence: rec.Confidence,
				Source:     rec.Source,
			})
		}
	}

	observed, err := st.RecordObservations(ctx, obs)
	if err != nil {
		return created, 0, eris.Wrap(err, "record observations")
	}
	return created, observed, nil
}

// storeWriter is the slice of the store persistRecords needs.
type storeWriter interface {
	UpsertBusiness(ctx context.Context, rec *model.BusinessRecord) (string, bool, error)
	RecordObservations(ctx context.Context, obs []model.Observation) (int64, error)
}

func printRecords(records []model.BusinessRecord) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Business", "Phone", "City", "Province", "Industry"})
	for _, r := range records {
		tw.AppendRow(table.Row{r.Name, r.Phone, r.City, r.Province, r.Industry})
	}
	tw.Render()
}

func init() {
	searchCmd.PersistentFlags().StringVar(&searchTerm, "term", "", "what to search for (required)")
	searchCmd.PersistentFlags().StringVar(&searchLocation, "location", "", "where to search")
	searchCmd.PersistentFlags().BoolVar(&searchDryRun, "dry-run", false, "print results without storing them")
	rootCmd.AddCommand(searchCmd)
}
