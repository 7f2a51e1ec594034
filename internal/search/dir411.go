package search

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/dir411"
)

// SourceDir411 tags records scraped from the 411 directory.
const SourceDir411 = "dir411"

// Dir411Searcher pages through directory results with a fixed delay between
// page fetches.
type Dir411Searcher struct {
	client   dir411.Client
	limiter  *rate.Limiter
	score    float64
	maxPages int
}

// NewDir411Searcher wraps a directory client. delay is the pause between page
// fetches; maxPages caps how far to page (minimum 1).
func NewDir411Searcher(client dir411.Client, delay time.Duration, score float64, maxPages int) *Dir411Searcher {
	if maxPages < 1 {
		maxPages = 1
	}
	if delay <= 0 {
		delay = time.Second
	}
	return &Dir411Searcher{
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
		score:    score,
		maxPages: maxPages,
	}
}

func (s *Dir411Searcher) Name() string { return SourceDir411 }

// Search fetches up to maxPages of results, stopping early at the first empty
// page.
func (s *Dir411Searcher) Search(ctx context.Context, q Query) ([]model.BusinessRecord, error) {
	var records []model.BusinessRecord
	for page := 1; page <= s.maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return records, eris.Wrap(err, "search: dir411 wait")
		}
		listings, err := s.client.Search(ctx, q.Term, q.Location, page)
		if err != nil {
			return records, eris.Wrapf(err, "search: dir411 page %d", page)
		}
		if len(listings) == 0 {
			break
		}
		for _, l := range listings {
			records = append(records, model.BusinessRecord{
				Name:       l.Name,
				Street:     l.Street,
				City:       l.City,
				Province:   l.Province,
				Phone:      l.Phone,
				Industry:   l.Category,
				Source:     SourceDir411,
				Confidence: s.score,
			})
		}
		zap.L().Debug("search: dir411 page fetched",
			zap.Int("page", page),
			zap.Int("listings", len(listings)))
	}
	return records, nil
}
