package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/filter"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	filterSource    string
	filterFormats   []string
	filterOutputDir string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter stored businesses by acquisition criteria and export the leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		businesses, err := st.ListBusinesses(ctx, store.ListOpts{Source: filterSource})
		if err != nil {
			return eris.Wrap(err, "list businesses")
		}
		for i := range businesses {
			hydrate(ctx, st, &businesses[i])
		}

		criteria := model.FilterCriteria{
			RevenueMin:      cfg.Filter.RevenueMin,
			RevenueMax:      cfg.Filter.RevenueMax,
			YearsMin:        cfg.Filter.YearsMin,
			YearsMax:        cfg.Filter.YearsMax,
			EmployeeMax:     cfg.Filter.EmployeeMax,
			MinScore:        cfg.Filter.MinScore,
			ExcludeKeywords: cfg.Filter.ExcludeKeywords,
		}
		leads, stats := filter.Apply(businesses, criteria)
		zap.L().Info("filter complete",
			zap.Int("in", stats.In),
			zap.Int("kept", stats.Kept),
			zap.Any("excluded", stats.Excluded),
		)

		outputDir := filterOutputDir
		if outputDir == "" {
			outputDir = cfg.Export.OutputDir
		}
		exporter := export.New(outputDir)

		for _, format := range filterFormats {
			var (
				path string
				err  error
			)
			switch format {
			case "csv":
				path, err = exporter.WriteCSV(leads)
			case "json":
				path, err = exporter.WriteJSONSummary(leads, criteria)
			case "checklist":
				path, err = exporter.WriteChecklist(leads)
			default:
				return eris.Errorf("unknown export format: %s", format)
			}
			if err != nil {
				return err
			}
			cmd.Println(path)
		}
		return nil
	},
}

// hydrate fills the enrichment fields from the highest-confidence observation
// per field, leaving the stored row value (or the unknown marker) when none
// exists.
func hydrate(ctx context.Context, st store.Store, b *model.BusinessRecord) {
	set := func(field string, dst *string) {
		obs, err := st.BestValueFor(ctx, b.ID, field)
		if err != nil {
			if !eris.Is(err, store.ErrNoObservation) {
				zap.L().Warn("observation lookup failed",
					zap.String("business", b.ID),
					zap.String("field", field),
					zap.Error(err))
			}
			return
		}
		*dst = obs.Value
	}

	set(model.FieldPhone, &b.Phone)
	set(model.FieldWebsite, &b.Website)
	set(model.FieldEmployeeRange, &b.EmployeeRange)
	set(model.FieldRevenueRange, &b.RevenueRange)
	set(model.FieldYearsInBusiness, &b.YearsInBusiness)

	for _, dst := range []*string{&b.EmployeeRange, &b.RevenueRange, &b.YearsInBusiness} {
		if *dst == "" {
			*dst = model.Unknown
		}
	}
}

func init() {
	f := filterCmd.Flags()
	f.StringVar(&filterSource, "source", "", "only consider records from this source")
	f.StringSliceVar(&filterFormats, "format", []string{"csv"}, "export formats: csv, json, checklist")
	f.StringVar(&filterOutputDir, "output-dir", "", "output directory (default from config)")
	rootCmd.AddCommand(filterCmd)
}
