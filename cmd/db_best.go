package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	bestBusinessID string
	bestField      string
)

var dbBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the winning observation for a field, or the full history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Field", "Value", "Confidence", "Source", "Observed"})

		if bestField != "" {
			obs, err := st.BestValueFor(ctx, bestBusinessID, bestField)
			if err != nil {
				if eris.Is(err, store.ErrNoObservation) {
					return eris.Errorf("no observation for field %q on %s", bestField, bestBusinessID)
				}
				return err
			}
			tw.AppendRow(table.Row{obs.Field, obs.Value, obs.Confidence, obs.Source, obs.ObservedAt.Format("2006-01-02")})
			tw.Render()
			return nil
		}

		history, err := st.ObservationsFor(ctx, bestBusinessID)
		if err != nil {
			return err
		}
		for _, obs := range history {
			tw.AppendRow(table.Row{obs.Field, obs.Value, obs.Confidence, obs.Source, obs.ObservedAt.Format("2006-01-02")})
		}
		tw.Render()
		return nil
	},
}

func init() {
	f := dbBestCmd.Flags()
	f.StringVar(&bestBusinessID, "id", "", "business ID (required)")
	f.StringVar(&bestField, "field", "", "field to resolve (omit for full history)")
	_ = dbBestCmd.MarkFlagRequired("id")
	dbCmd.AddCommand(dbBestCmd)
}
