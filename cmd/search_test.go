package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestPersistRecords(t *testing.T) {
	st := newTestStore(t)
	records := []model.BusinessRecord{
		{Name: "Maple Imports Ltd", Street: "12 Bay St", Phone: "416-555-0101",
			Website: "mapleimports.ca", Source: "dir411", Confidence: 0.6},
		{Name: "North Trade Co", Street: "9 Pine Rd", Source: "dir411", Confidence: 0.6},
		// Same fingerprint as the first record, dedupes to it.
		{Name: "MAPLE IMPORTS LTD.", Street: "12 Bay St.", Phone: "416-555-0102",
			Source: "google_places", Confidence: 0.5},
	}

	created, observed, err := persistRecords(context.Background(), st, records)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	// Two contact fields from the first record, one from the duplicate.
	assert.Equal(t, int64(3), observed)
	assert.Equal(t, records[0].ID, records[2].ID)
	assert.NotEmpty(t, records[1].ID)

	// The higher-confidence phone wins over the duplicate's.
	best, err := st.BestValueFor(context.Background(), records[0].ID, model.FieldPhone)
	require.NoError(t, err)
	assert.Equal(t, "416-555-0101", best.Value)
}

func TestPersistRecordsSkipsEmptyContactFields(t *testing.T) {
	st := newTestStore(t)
	records := []model.BusinessRecord{
		{Name: "No Contact Info Inc", Source: "importers_file", Confidence: 0.7},
	}
	created, observed, err := persistRecords(context.Background(), st, records)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Zero(t, observed)
}
