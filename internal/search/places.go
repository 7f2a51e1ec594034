package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/places"
)

// SourcePlaces tags records that came from the Google Places text search.
const SourcePlaces = "google_places"

// PlacesSearcher runs a text search against the Places API and normalizes the
// results.
type PlacesSearcher struct {
	client places.Client
	score  float64
	max    int
}

// NewPlacesSearcher wraps a Places client. score is the baseline confidence
// assigned to every record; max caps the number of results kept (0 means all).
func NewPlacesSearcher(client places.Client, score float64, max int) *PlacesSearcher {
	return &PlacesSearcher{client: client, score: score, max: max}
}

func (s *PlacesSearcher) Name() string { return SourcePlaces }

func (s *PlacesSearcher) Search(ctx context.Context, q Query) ([]model.BusinessRecord, error) {
	query := strings.TrimSpace(q.Term + " in " + q.Location)
	resp, err := s.client.TextSearch(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "search: places text search %q", query)
	}

	records := make([]model.BusinessRecord, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p.DisplayName.Text == "" {
			zap.L().Debug("search: skipping unnamed place", zap.String("address", p.FormattedAddress))
			continue
		}
		street, city, province, postal := splitAddress(p.FormattedAddress)
		records = append(records, model.BusinessRecord{
			Name:       p.DisplayName.Text,
			Street:     street,
			City:       city,
			Province:   province,
			Postal:     postal,
			Phone:      p.NationalPhoneNumber,
			Website:    p.WebsiteURI,
			Industry:   industryFromTypes(p.Types),
			Source:     SourcePlaces,
			Confidence: s.confidence(p),
		})
		if s.max > 0 && len(records) >= s.max {
			break
		}
	}
	return records, nil
}

// confidence nudges the baseline score by the place's rating. Unrated places
// keep the baseline; a 5-star place gains up to 0.2, a 1-star place loses up
// to 0.2. Clamped to [0,1].
func (s *PlacesSearcher) confidence(p places.Place) float64 {
	if p.UserRatingCount == 0 {
		return s.score
	}
	c := s.score + (p.Rating-3)*0.1
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

var postalRe = regexp.MustCompile(`(?i)\b([A-Z]\d[A-Z]) ?(\d[A-Z]\d)\b`)

// splitAddress breaks a formatted address like
// "12 Bay St, Toronto, ON M5J 2R8, Canada" into its parts. Components it
// cannot place stay empty; nothing here is fatal.
func splitAddress(addr string) (street, city, province, postal string) {
	parts := strings.Split(addr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	// Drop a trailing country component.
	if n := len(parts); n > 0 && (parts[n-1] == "Canada" || parts[n-1] == "USA" || parts[n-1] == "United States") {
		parts = parts[:n-1]
	}
	if len(parts) == 0 {
		return "", "", "", ""
	}

	last := parts[len(parts)-1]
	if m := postalRe.FindStringSubmatch(last); m != nil {
		postal = strings.ToUpper(m[1] + " " + m[2])
		last = strings.TrimSpace(postalRe.ReplaceAllString(last, ""))
	}
	if last != "" && len(last) <= 3 && last == strings.ToUpper(last) {
		province = last
		parts = parts[:len(parts)-1]
	} else if postal != "" {
		parts[len(parts)-1] = last
	}

	switch len(parts) {
	case 0:
	case 1:
		street = parts[0]
	default:
		street = parts[0]
		city = parts[len(parts)-1]
	}
	return street, city, province, postal
}

// industryFromTypes picks the first descriptive place type, skipping the
// generic ones every result carries.
func industryFromTypes(types []string) string {
	for _, t := range types {
		switch t {
		case "point_of_interest", "establishment":
			continue
		}
		return strings.ReplaceAll(t, "_", " ")
	}
	return ""
}
