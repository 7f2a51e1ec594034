package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func seedBusiness(t *testing.T, st store.Store) string {
	t.Helper()
	rec := &model.BusinessRecord{
		Name: "Maple Imports Ltd", Street: "12 Bay St", City: "Toronto",
		Province: "ON", Source: "dir411", Confidence: 0.6,
	}
	id, _, err := st.UpsertBusiness(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func doRequest(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	mux := newServeMux(newTestStore(t))
	rec := doRequest(t, mux, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeListBusinesses(t *testing.T) {
	st := newTestStore(t)
	seedBusiness(t, st)
	mux := newServeMux(st)

	rec := doRequest(t, mux, "/businesses")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.BusinessRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Maple Imports Ltd", got[0].Name)
}

func TestServeListFiltersBySource(t *testing.T) {
	st := newTestStore(t)
	seedBusiness(t, st)
	mux := newServeMux(st)

	rec := doRequest(t, mux, "/businesses?source=google_places")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.BusinessRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got)
}

func TestServeGetBusiness(t *testing.T) {
	st := newTestStore(t)
	id := seedBusiness(t, st)
	mux := newServeMux(st)

	rec := doRequest(t, mux, "/businesses/"+id)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.BusinessRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)

	rec = doRequest(t, mux, "/businesses/no-such-id")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeBestValue(t *testing.T) {
	st := newTestStore(t)
	id := seedBusiness(t, st)
	require.NoError(t, st.RecordObservation(context.Background(), model.Observation{
		BusinessID: id, Field: model.FieldPhone, Value: "416-555-0101",
		Confidence: 0.8, Source: "manual",
	}))
	mux := newServeMux(st)

	rec := doRequest(t, mux, "/businesses/"+id+"/best?field=phone")
	require.Equal(t, http.StatusOK, rec.Code)

	var obs model.Observation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &obs))
	assert.Equal(t, "416-555-0101", obs.Value)

	rec = doRequest(t, mux, "/businesses/"+id+"/best?field=website")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, mux, "/businesses/"+id+"/best")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeObservationsEmptyArray(t *testing.T) {
	st := newTestStore(t)
	id := seedBusiness(t, st)
	mux := newServeMux(st)

	rec := doRequest(t, mux, "/businesses/"+id+"/observations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
