package filter

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Exclusion reason codes, tallied in Stats.
const (
	ReasonRevenueUnparseable = "revenue_unparseable"
	ReasonRevenueOutOfBounds = "revenue_out_of_bounds"
	ReasonYearsUnparseable   = "years_unparseable"
	ReasonYearsOutOfBounds   = "years_out_of_bounds"
	ReasonTooManyEmployees   = "too_many_employees"
	ReasonKeywordExcluded    = "keyword_excluded"
	ReasonLowScore           = "low_score"
)

// Stats tallies how many records each predicate excluded.
type Stats struct {
	In       int
	Kept     int
	Excluded map[string]int
}

// Apply runs every configured predicate over the records and returns the
// survivors sorted descending by confidence score. Predicates are
// order-independent; ties in the sort keep their original relative order.
func Apply(records []model.BusinessRecord, criteria model.FilterCriteria) ([]model.BusinessRecord, Stats) {
	stats := Stats{In: len(records), Excluded: make(map[string]int)}

	kept := make([]model.BusinessRecord, 0, len(records))
	for _, rec := range records {
		if reason := exclude(rec, criteria); reason != "" {
			stats.Excluded[reason]++
			zap.L().Debug("filter: excluded record",
				zap.String("name", rec.Name),
				zap.String("reason", reason),
			)
			continue
		}
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	stats.Kept = len(kept)
	return kept, stats
}

// exclude returns the first matching exclusion reason, or "" to keep.
func exclude(rec model.BusinessRecord, c model.FilterCriteria) string {
	if c.RevenueMin > 0 || c.RevenueMax > 0 {
		revenue, err := ParseRevenueEstimate(rec.RevenueRange)
		if err != nil {
			return ReasonRevenueUnparseable
		}
		if revenue < c.RevenueMin {
			return ReasonRevenueOutOfBounds
		}
		// Inclusive upper bound.
		if c.RevenueMax > 0 && revenue > c.RevenueMax {
			return ReasonRevenueOutOfBounds
		}
	}

	if c.YearsMin > 0 || c.YearsMax > 0 {
		years, err := ParseYears(rec.YearsInBusiness)
		if err != nil {
			return ReasonYearsUnparseable
		}
		if years < c.YearsMin {
			return ReasonYearsOutOfBounds
		}
		if c.YearsMax > 0 && years > c.YearsMax {
			return ReasonYearsOutOfBounds
		}
	}

	if c.EmployeeMax > 0 {
		band, err := model.ParseRange(rec.EmployeeRange)
		// An unknown or unparseable band passes; only a confirmed
		// larger headcount excludes.
		if err == nil && band.Known && band.Min > c.EmployeeMax {
			return ReasonTooManyEmployees
		}
	}

	if matchesKeyword(rec, c.ExcludeKeywords) {
		return ReasonKeywordExcluded
	}

	if c.MinScore > 0 && rec.Confidence < c.MinScore {
		return ReasonLowScore
	}

	return ""
}

// matchesKeyword does a case-insensitive substring check of the exclusion
// vocabulary against the record's free-text fields.
func matchesKeyword(rec model.BusinessRecord, vocab []string) bool {
	if len(vocab) == 0 {
		return false
	}
	haystack := strings.ToLower(rec.Name + " " + rec.Industry + " " + rec.Notes)
	for _, kw := range vocab {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
