package enrich

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/rdap"
)

// DomainAgeEstimator derives years-in-business from a website's domain
// registration date.
type DomainAgeEstimator struct {
	client     rdap.Client
	confidence float64
	now        func() time.Time
}

// NewDomainAgeEstimator creates an estimator over the given RDAP client.
func NewDomainAgeEstimator(client rdap.Client, confidence float64) *DomainAgeEstimator {
	return &DomainAgeEstimator{
		client:     client,
		confidence: confidence,
		now:        time.Now,
	}
}

// YearsInBusiness looks up the website's registration date and returns the
// elapsed whole years as a string, plus the heuristic confidence. A failed
// lookup or a response with no registration event yields the unknown marker,
// never zero.
func (e *DomainAgeEstimator) YearsInBusiness(ctx context.Context, website string) (string, float64) {
	domain := DomainFromWebsite(website)
	if domain == "" {
		return model.Unknown, 0
	}

	resp, err := e.client.Domain(ctx, domain)
	if err != nil {
		zap.L().Debug("enrich: rdap lookup failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return model.Unknown, 0
	}

	registered, ok := resp.RegistrationDate()
	if !ok {
		zap.L().Debug("enrich: no registration event", zap.String("domain", domain))
		return model.Unknown, 0
	}

	years := wholeYearsBetween(registered, e.now())
	if years < 0 {
		return model.Unknown, 0
	}
	return strconv.Itoa(years), e.confidence
}

// wholeYearsBetween counts completed calendar years from a to b, comparing
// wall-clock dates only. Timezone information is discarded before the
// subtraction, not converted.
func wholeYearsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	anniversary := time.Date(a.Year()+years, a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	if anniversary.After(time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)) {
		years--
	}
	return years
}

// DomainFromWebsite extracts the bare registrable hostname from a website
// value, tolerating missing schemes and www prefixes.
func DomainFromWebsite(website string) string {
	s := strings.TrimSpace(website)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
