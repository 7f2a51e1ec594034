package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return ts }
}

func sampleLeads() []model.BusinessRecord {
	return []model.BusinessRecord{
		{
			Name: "Maple Imports Ltd", Street: "12 Bay St", City: "Toronto", Province: "ON",
			Postal: "M5J 2R8", Phone: "416-555-0101", Website: "mapleimports.ca",
			Industry: "Importers", EmployeeRange: "10-50", RevenueRange: "$500.0K-$5.0M",
			YearsInBusiness: "12", Source: "dir411", Confidence: 0.8, Notes: "warm intro",
		},
		{
			Name: "North Trade Co", City: "Vancouver", Province: "BC",
			EmployeeRange: model.Unknown, RevenueRange: model.Unknown,
			YearsInBusiness: model.Unknown, Source: "google_places", Confidence: 0.5,
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	e := New(t.TempDir(), WithClock(fixedClock()))
	leads := sampleLeads()

	path, err := e.WriteCSV(leads)
	require.NoError(t, err)
	assert.Equal(t, "leads_20260314_092653.csv", filepath.Base(path))

	got, err := ReadLeads(path)
	require.NoError(t, err)
	assert.Equal(t, leads, got)
}

func TestReadLeadsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("city,phone\nToronto,416\n"), 0o644))
	_, err := ReadLeads(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestWriteJSONSummary(t *testing.T) {
	e := New(t.TempDir(), WithClock(fixedClock()))
	criteria := model.FilterCriteria{RevenueMin: 500_000, RevenueMax: 5_000_000, MinScore: 0.5}

	path, err := e.WriteJSONSummary(sampleLeads(), criteria)
	require.NoError(t, err)
	assert.Equal(t, "leads_20260314_092653.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, criteria, got.Criteria)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), got.GeneratedAt)
	require.Len(t, got.Leads, 2)
	assert.Equal(t, "Maple Imports Ltd", got.Leads[0].Name)
}

func TestWriteJSONSummaryEmptyLeads(t *testing.T) {
	e := New(t.TempDir(), WithClock(fixedClock()))
	path, err := e.WriteJSONSummary(nil, model.FilterCriteria{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Leads serializes as an empty array, never null.
	assert.Contains(t, string(data), `"leads": []`)
}

func TestWriteChecklist(t *testing.T) {
	e := New(t.TempDir(), WithClock(fixedClock()))
	path, err := e.WriteChecklist(sampleLeads())
	require.NoError(t, err)
	assert.Equal(t, "checklist_20260314_092653.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Maple Imports Ltd")
	assert.Contains(t, text, "[ ]")
	assert.Contains(t, text, "416-555-0101")
	// Unknown enrichment fields render as a dash.
	assert.Contains(t, text, "North Trade Co")
	assert.NotContains(t, text, model.Unknown)
}

func TestExporterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e := New(dir, WithClock(fixedClock()))
	_, err := e.WriteCSV(nil)
	require.NoError(t, err)
	_, err = os.Stat(dir)
	require.NoError(t, err)
}
