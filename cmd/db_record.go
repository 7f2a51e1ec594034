package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	recordBusinessID string
	recordField      string
	recordValue      string
	recordConfidence float64
)

var dbRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a manual observation for a business",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if recordConfidence < 0 || recordConfidence > 1 {
			return eris.Errorf("confidence must be in [0,1], got %v", recordConfidence)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		obs := model.Observation{
			BusinessID: recordBusinessID,
			Field:      recordField,
			Value:      recordValue,
			Confidence: recordConfidence,
			Source:     "manual",
		}
		if err := st.RecordObservation(ctx, obs); err != nil {
			return err
		}

		zap.L().Info("observation recorded",
			zap.String("business", recordBusinessID),
			zap.String("field", recordField),
			zap.Float64("confidence", recordConfidence),
		)
		return nil
	},
}

func init() {
	f := dbRecordCmd.Flags()
	f.StringVar(&recordBusinessID, "id", "", "business ID (required)")
	f.StringVar(&recordField, "field", "", "observation field (required)")
	f.StringVar(&recordValue, "value", "", "observed value (required)")
	f.Float64Var(&recordConfidence, "confidence", 1.0, "confidence score in [0,1]")
	_ = dbRecordCmd.MarkFlagRequired("id")
	_ = dbRecordCmd.MarkFlagRequired("field")
	_ = dbRecordCmd.MarkFlagRequired("value")
	dbCmd.AddCommand(dbRecordCmd)
}
