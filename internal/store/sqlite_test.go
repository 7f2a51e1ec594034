package store

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedBusiness(t *testing.T, st *SQLiteStore, name string) string {
	t.Helper()
	id, created, err := st.UpsertBusiness(context.Background(), &model.BusinessRecord{
		Name:   name,
		Street: "123 King St W",
		City:   "Toronto",
		Source: "test",
	})
	require.NoError(t, err)
	require.True(t, created)
	return id
}

// --- Businesses ---

func TestSQLite_UpsertBusiness_DedupesOnFingerprint(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id1, created, err := st.UpsertBusiness(ctx, &model.BusinessRecord{
		Name: "Maple Leaf Imports Ltd.", Street: "123 King St. W",
	})
	require.NoError(t, err)
	assert.True(t, created)

	// Same listing with different casing and punctuation.
	id2, created, err := st.UpsertBusiness(ctx, &model.BusinessRecord{
		Name: "MAPLE LEAF IMPORTS LTD", Street: "123 King St W",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)
}

func TestSQLite_GetBusiness_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetBusiness(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBusinessNotFound))
}

func TestSQLite_ListBusinesses_FilterBySource(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, _, err := st.UpsertBusiness(ctx, &model.BusinessRecord{Name: "A", Street: "1 A St", Source: "places"})
	require.NoError(t, err)
	_, _, err = st.UpsertBusiness(ctx, &model.BusinessRecord{Name: "B", Street: "2 B St", Source: "411"})
	require.NoError(t, err)

	got, err := st.ListBusinesses(ctx, ListOpts{Source: "411"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Name)
}

func TestSQLite_ListBusinesses_NoLimitReturnsAll(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		_, _, err := st.UpsertBusiness(ctx, &model.BusinessRecord{
			Name:   "Biz " + strconv.Itoa(i),
			Street: strconv.Itoa(i) + " Queen St",
			Source: "test",
		})
		require.NoError(t, err)
	}

	got, err := st.ListBusinesses(ctx, ListOpts{})
	require.NoError(t, err)
	assert.Len(t, got, 150)

	got, err = st.ListBusinesses(ctx, ListOpts{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 10)

	got, err = st.ListBusinesses(ctx, ListOpts{Offset: 140})
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

// --- Observations ---

func TestSQLite_RecordObservation_RequiresBusiness(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.RecordObservation(context.Background(), model.Observation{
		BusinessID: "ghost", Field: "revenue", Value: "$1M", Confidence: 0.5, Source: "test",
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBusinessNotFound))
}

func TestSQLite_BestValueFor_HighestConfidenceWins(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedBusiness(t, st, "Acme Imports")

	require.NoError(t, st.RecordObservation(ctx, model.Observation{
		BusinessID: id, Field: "employee_range", Value: "1-10", Confidence: 0.4, Source: "keyword",
	}))
	require.NoError(t, st.RecordObservation(ctx, model.Observation{
		BusinessID: id, Field: "employee_range", Value: "10-50", Confidence: 0.9, Source: "manual",
	}))

	best, err := st.BestValueFor(ctx, id, "employee_range")
	require.NoError(t, err)
	assert.Equal(t, "10-50", best.Value)
	assert.InDelta(t, 0.9, best.Confidence, 0.001)
}

func TestSQLite_BestValueFor_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedBusiness(t, st, "Tie Break Co")

	// Two observations at equal confidence: first-seen must win, both times.
	require.NoError(t, st.RecordObservation(ctx, model.Observation{
		BusinessID: id, Field: "phone", Value: "416-555-0001", Confidence: 0.7, Source: "places",
	}))
	require.NoError(t, st.RecordObservation(ctx, model.Observation{
		BusinessID: id, Field: "phone", Value: "416-555-0002", Confidence: 0.7, Source: "411",
	}))

	first, err := st.BestValueFor(ctx, id, "phone")
	require.NoError(t, err)
	second, err := st.BestValueFor(ctx, id, "phone")
	require.NoError(t, err)

	assert.Equal(t, "416-555-0001", first.Value)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.ID, second.ID)
}

func TestSQLite_BestValueFor_NoObservation(t *testing.T) {
	st := newTestSQLiteStore(t)
	id := seedBusiness(t, st, "Empty Co")

	_, err := st.BestValueFor(context.Background(), id, "revenue_range")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoObservation))
}

func TestSQLite_ObservationsFor_RetainsFullHistory(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedBusiness(t, st, "History Co")

	for _, conf := range []float64{0.3, 0.6, 0.9} {
		require.NoError(t, st.RecordObservation(ctx, model.Observation{
			BusinessID: id, Field: "revenue_range", Value: "$1M-$2M", Confidence: conf, Source: "test",
		}))
	}

	obs, err := st.ObservationsFor(ctx, id)
	require.NoError(t, err)
	assert.Len(t, obs, 3)
}

func TestSQLite_RecordObservations_Batch(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedBusiness(t, st, "Batch Co")

	n, err := st.RecordObservations(ctx, []model.Observation{
		{BusinessID: id, Field: "phone", Value: "613-555-0100", Confidence: 0.6, Source: "411"},
		{BusinessID: id, Field: "website", Value: "https://batch.example", Confidence: 0.8, Source: "411"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	obs, err := st.ObservationsFor(ctx, id)
	require.NoError(t, err)
	assert.Len(t, obs, 2)
}
