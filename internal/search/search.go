// Package search maps external directory sources into BusinessRecords.
//
// Each source gets its own Searcher. Searchers never enrich or filter; they
// normalize whatever the source returns and tag it with a source name and a
// baseline confidence score.
package search

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Query is a what/where directory search.
type Query struct {
	Term     string
	Location string
}

// Searcher produces normalized records for a query. Implementations skip
// individual listings they cannot parse rather than failing the whole search.
type Searcher interface {
	Name() string
	Search(ctx context.Context, q Query) ([]model.BusinessRecord, error)
}
