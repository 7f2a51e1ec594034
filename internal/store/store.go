// Package store persists businesses and append-only field observations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ErrNoObservation is returned by BestValueFor when no observation exists for
// the requested field. Callers must treat this as missing data, never as an
// empty or zero value.
var ErrNoObservation = eris.New("store: no observation")

// ErrBusinessNotFound is returned when a business ID does not exist.
var ErrBusinessNotFound = eris.New("store: business not found")

// ListOpts filters business listing. Limit <= 0 returns every row.
type ListOpts struct {
	Source string
	Limit  int
	Offset int
}

// Store defines persistence for businesses and their observations.
// Observations are append-mostly: prior rows for the same field are never
// overwritten, and consumers pick the highest-confidence value per field.
type Store interface {
	// Businesses
	UpsertBusiness(ctx context.Context, rec *model.BusinessRecord) (id string, created bool, err error)
	GetBusiness(ctx context.Context, id string) (*model.BusinessRecord, error)
	ListBusinesses(ctx context.Context, opts ListOpts) ([]model.BusinessRecord, error)

	// Observations
	RecordObservation(ctx context.Context, obs model.Observation) error
	RecordObservations(ctx context.Context, obs []model.Observation) (int64, error)
	BestValueFor(ctx context.Context, businessID, field string) (*model.Observation, error)
	ObservationsFor(ctx context.Context, businessID string) ([]model.Observation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
