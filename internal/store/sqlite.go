package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
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
	confidence  REAL NOT NULL DEFAULT 0,
	fingerprint TEXT NOT NULL UNIQUE,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS observations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	business_id TEXT NOT NULL REFERENCES businesses(id),
	field       TEXT NOT NULL,
	value       TEXT NOT NULL,
	confidence  REAL NOT NULL,
	source      TEXT NOT NULL,
	observed_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_businesses_fingerprint ON businesses(fingerprint);
CREATE INDEX IF NOT EXISTS idx_observations_business_field ON observations(business_id, field);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertBusiness inserts a business, deduplicating on fingerprint. When a
// record with the same fingerprint already exists its ID is returned and the
// stored row is left untouched.
func (s *SQLiteStore) UpsertBusiness(ctx context.Context, rec *model.BusinessRecord) (string, bool, error) {
	fp := rec.Fingerprint()

	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM businesses WHERE fingerprint = ?`, fp,
	).Scan(&existing)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return "", false, eris.Wrap(err, "sqlite: lookup fingerprint")
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO businesses
			(id, name, street, city, province, postal, phone, website, industry, notes, source, confidence, fingerprint, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Name, rec.Street, rec.City, rec.Province, rec.Postal,
		rec.Phone, rec.Website, rec.Industry, rec.Notes,
		rec.Source, rec.Confidence, fp, now,
	)
	if err != nil {
		return "", false, eris.Wrapf(err, "sqlite: insert business %s", rec.Name)
	}
	return id, true, nil
}

func (s *SQLiteStore) GetBusiness(ctx context.Context, id string) (*model.BusinessRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE id = ?`, id,
	)
	return scanBusiness(row)
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context, opts ListOpts) ([]model.BusinessRecord, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE 1=1`
	var args []any

	if opts.Source != "" {
		query += ` AND source = ?`
		args = append(args, opts.Source)
	}
	query += ` ORDER BY created_at DESC, id`

	// Limit <= 0 means no cap: the pipeline commands read everything.
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += ` LIMIT -1`
	}
	if opts.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close()

	var records []model.BusinessRecord
	for rows.Next() {
		r, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list businesses iterate")
}

// RecordObservation appends an observation. The referenced business must
// already exist; prior observations for the same field are kept.
func (s *SQLiteStore) RecordObservation(ctx context.Context, obs model.Observation) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM businesses WHERE id = ?)`, obs.BusinessID,
	).Scan(&exists)
	if err != nil {
		return eris.Wrap(err, "sqlite: check business exists")
	}
	if !exists {
		return eris.Wrapf(ErrBusinessNotFound, "sqlite: record observation for %s", obs.BusinessID)
	}

	observedAt := obs.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO observations (business_id, field, value, confidence, source, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		obs.BusinessID, obs.Field, obs.Value, obs.Confidence, obs.Source, observedAt,
	)
	return eris.Wrapf(err, "sqlite: insert observation %s/%s", obs.BusinessID, obs.Field)
}

// RecordObservations appends a batch of observations inside one transaction.
// Returns the number of rows written.
func (s *SQLiteStore) RecordObservations(ctx context.Context, obs []model.Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for _, o := range obs {
		observedAt := o.ObservedAt
		if observedAt.IsZero() {
			observedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO observations (business_id, field, value, confidence, source, observed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			o.BusinessID, o.Field, o.Value, o.Confidence, o.Source, observedAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: batch insert observation %s/%s", o.BusinessID, o.Field)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit observations")
	}
	return n, nil
}

// BestValueFor selects the highest-confidence observation for a field.
// Equal confidences tie-break to the first-seen row, so repeated selection
// over the same data always returns the same value.
func (s *SQLiteStore) BestValueFor(ctx context.Context, businessID, field string) (*model.Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, business_id, field, value, confidence, source, observed_at
		 FROM observations
		 WHERE business_id = ? AND field = ?
		 ORDER BY confidence DESC, observed_at ASC, id ASC
		 LIMIT 1`,
		businessID, field,
	)

	var o model.Observation
	err := row.Scan(&o.ID, &o.BusinessID, &o.Field, &o.Value, &o.Confidence, &o.Source, &o.ObservedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNoObservation, "sqlite: %s/%s", businessID, field)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: best value")
	}
	return &o, nil
}

func (s *SQLiteStore) ObservationsFor(ctx context.Context, businessID string) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, business_id, field, value, confidence, source, observed_at
		 FROM observations
		 WHERE business_id = ?
		 ORDER BY field, confidence DESC, id`,
		businessID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list observations")
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.Field, &o.Value, &o.Confidence, &o.Source, &o.ObservedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan observation")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list observations iterate")
}

// helpers

const businessColumns = `id, name, street, city, province, postal, phone, website, industry, notes, source, confidence, created_at`

type scannable interface {
	Scan(dest ...any) error
}

func scanBusiness(row scannable) (*model.BusinessRecord, error) {
	var r model.BusinessRecord
	err := row.Scan(
		&r.ID, &r.Name, &r.Street, &r.City, &r.Province, &r.Postal,
		&r.Phone, &r.Website, &r.Industry, &r.Notes,
		&r.Source, &r.Confidence, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan business")
	}
	return &r, nil
}
