package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgres_GetBusiness_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM businesses WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetBusiness(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBusinessNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_BestValueFor_NoObservation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, business_id, field, value, confidence, source, observed_at`).
		WithArgs("biz-1", "revenue_range").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.BestValueFor(context.Background(), "biz-1", "revenue_range")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoObservation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_BestValueFor_ReturnsRow(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, business_id, field, value, confidence, source, observed_at`).
		WithArgs("biz-1", "employee_range").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "business_id", "field", "value", "confidence", "source", "observed_at"},
		).AddRow(int64(7), "biz-1", "employee_range", "10-50", 0.9, "manual", now))

	best, err := s.BestValueFor(context.Background(), "biz-1", "employee_range")
	require.NoError(t, err)
	assert.Equal(t, "10-50", best.Value)
	assert.InDelta(t, 0.9, best.Confidence, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListBusinesses_NoLimitByDefault(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	// No LIMIT clause and no args when neither a limit nor an offset is set.
	mock.ExpectQuery(`SELECT .+ FROM businesses ORDER BY created_at DESC, id$`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "street", "city", "province", "postal",
			"phone", "website", "industry", "notes",
			"source", "confidence", "created_at",
		}).AddRow("b1", "A", "", "", "", "", "", "", "", "", "test", 0.5, now))

	got, err := s.ListBusinesses(context.Background(), ListOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListBusinesses_AppliesLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM businesses ORDER BY created_at DESC, id LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "street", "city", "province", "postal",
			"phone", "website", "industry", "notes",
			"source", "confidence", "created_at",
		}))

	got, err := s.ListBusinesses(context.Background(), ListOpts{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordObservation_MissingBusiness(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.RecordObservation(context.Background(), model.Observation{
		BusinessID: "ghost", Field: "phone", Value: "x", Confidence: 0.5, Source: "test",
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBusinessNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordObservations_UsesCopy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"observations"},
		[]string{"business_id", "field", "value", "confidence", "source", "observed_at"},
	).WillReturnResult(2)

	n, err := s.RecordObservations(context.Background(), []model.Observation{
		{BusinessID: "b1", Field: "phone", Value: "1", Confidence: 0.5, Source: "t"},
		{BusinessID: "b1", Field: "website", Value: "2", Confidence: 0.5, Source: "t"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordObservations_Empty(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	n, err := s.RecordObservations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
