package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

var importLeadsPath string

var dbImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a previously exported leads CSV into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := export.ReadLeads(importLeadsPath)
		if err != nil {
			return err
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

		// Enrichment columns come back as observations too, so a re-import
		// survives a wiped store without re-running enrichment.
		var obs []model.Observation
		for i := range records {
			rec := &records[i]
			if rec.ID == "" {
				continue
			}
			for field, value := range map[string]string{
				model.FieldEmployeeRange:   rec.EmployeeRange,
				model.FieldRevenueRange:    rec.RevenueRange,
				model.FieldYearsInBusiness: rec.YearsInBusiness,
			} {
				if value == "" || value == model.Unknown {
					continue
				}
				obs = append(obs, model.Observation{
					BusinessID: rec.ID,
					Field:      field,
					Value:      value,
					Confidence: rec.Confidence,
					Source:     "import",
				})
			}
		}
		if len(obs) > 0 {
			n, err := st.RecordObservations(ctx, obs)
			if err != nil {
				return eris.Wrap(err, "record imported observations")
			}
			observed += n
		}

		zap.L().Info("import complete",
			zap.String("csv", importLeadsPath),
			zap.Int("records", len(records)),
			zap.Int("new", created),
			zap.Int64("observations", observed),
		)
		return nil
	},
}

func init() {
	dbImportCmd.Flags().StringVar(&importLeadsPath, "csv", "", "path to a leads CSV (required)")
	_ = dbImportCmd.MarkFlagRequired("csv")
	dbCmd.AddCommand(dbImportCmd)
}
