package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	street      TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	province    TEXT NOT NULL DEFAULT '',
	postal      TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	website     TEXT NOT NULL DEFAULT '',
	industry    TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
	fingerprint TEXT NOT NULL UNIQUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS observations (
	id          BIGSERIAL PRIMARY KEY,
	business_id TEXT NOT NULL REFERENCES businesses(id),
	field       TEXT NOT NULL,
	value       TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	source      TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_observations_business_field ON observations(business_id, field);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// UpsertBusiness inserts a business, returning the existing row's ID when the
// fingerprint already exists.
func (s *PostgresStore) UpsertBusiness(ctx context.Context, rec *model.BusinessRecord) (string, bool, error) {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}

	var gotID string
	var inserted bool
	err := s.pool.QueryRow(ctx,
		`INSERT INTO businesses
			(id, name, street, city, province, postal, phone, website, industry, notes, source, confidence, fingerprint)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (fingerprint) DO UPDATE SET fingerprint = EXCLUDED.fingerprint
		 RETURNING id, (xmax = 0)`,
		id, rec.Name, rec.Street, rec.City, rec.Province, rec.Postal,
		rec.Phone, rec.Website, rec.Industry, rec.Notes,
		rec.Source, rec.Confidence, rec.Fingerprint(),
	).Scan(&gotID, &inserted)
	if err != nil {
		return "", false, eris.Wrapf(err, "postgres: upsert business %s", rec.Name)
	}
	return gotID, inserted, nil
}

func (s *PostgresStore) GetBusiness(ctx context.Context, id string) (*model.BusinessRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id,
	)

	var r model.BusinessRecord
	err := row.Scan(
		&r.ID, &r.Name, &r.Street, &r.City, &r.Province, &r.Postal,
		&r.Phone, &r.Website, &r.Industry, &r.Notes,
		&r.Source, &r.Confidence, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan business")
	}
	return &r, nil
}

func (s *PostgresStore) ListBusinesses(ctx context.Context, opts ListOpts) ([]model.BusinessRecord, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses`
	var args []any

	if opts.Source != "" {
		query += ` WHERE source = $1`
		args = append(args, opts.Source)
	}
	query += ` ORDER BY created_at DESC, id`

	// Limit <= 0 means no cap: the pipeline commands read everything.
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	var records []model.BusinessRecord
	for rows.Next() {
		var r model.BusinessRecord
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Street, &r.City, &r.Province, &r.Postal,
			&r.Phone, &r.Website, &r.Industry, &r.Notes,
			&r.Source, &r.Confidence, &r.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan business")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list businesses iterate")
}

func (s *PostgresStore) RecordObservation(ctx context.Context, obs model.Observation) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM businesses WHERE id = $1)`, obs.BusinessID,
	).Scan(&exists)
	if err != nil {
		return eris.Wrap(err, "postgres: check business exists")
	}
	if !exists {
		return eris.Wrapf(ErrBusinessNotFound, "postgres: record observation for %s", obs.BusinessID)
	}

	observedAt := obs.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO observations (business_id, field, value, confidence, source, observed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		obs.BusinessID, obs.Field, obs.Value, obs.Confidence, obs.Source, observedAt,
	)
	return eris.Wrapf(err, "postgres: insert observation %s/%s", obs.BusinessID, obs.Field)
}

// RecordObservations bulk-inserts observations via the COPY protocol.
func (s *PostgresStore) RecordObservations(ctx context.Context, obs []model.Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(obs))
	for i, o := range obs {
		observedAt := o.ObservedAt
		if observedAt.IsZero() {
			observedAt = time.Now().UTC()
		}
		rows[i] = []any{o.BusinessID, o.Field, o.Value, o.Confidence, o.Source, observedAt}
	}

	n, err := db.CopyFrom(ctx, s.pool, "observations",
		[]string{"business_id", "field", "value", "confidence", "source", "observed_at"},
		rows,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy observations")
	}
	return n, nil
}

func (s *PostgresStore) BestValueFor(ctx context.Context, businessID, field string) (*model.Observation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, business_id, field, value, confidence, source, observed_at
		 FROM observations
		 WHERE business_id = $1 AND field = $2
		 ORDER BY confidence DESC, observed_at ASC, id ASC
		 LIMIT 1`,
		businessID, field,
	)

	var o model.Observation
	err := row.Scan(&o.ID, &o.BusinessID, &o.Field, &o.Value, &o.Confidence, &o.Source, &o.ObservedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNoObservation, "postgres: %s/%s", businessID, field)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: best value")
	}
	return &o, nil
}

func (s *PostgresStore) ObservationsFor(ctx context.Context, businessID string) ([]model.Observation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, business_id, field, value, confidence, source, observed_at
		 FROM observations
		 WHERE business_id = $1
		 ORDER BY field, confidence DESC, id`,
		businessID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list observations")
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.Field, &o.Value, &o.Confidence, &o.Source, &o.ObservedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan observation")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list observations iterate")
}
