// Package dir411 scrapes business listings from the 411 directory.
package dir411

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://www.411.ca"

// Listing is one business entry parsed from a directory results page.
type Listing struct {
	Name     string
	Street   string
	City     string
	Province string
	Phone    string
	Category string
}

// Client fetches and parses directory search result pages.
type Client interface {
	Search(ctx context.Context, what, where string, page int) ([]Listing, error)
}

// Option configures the client.
type Option func(*restyClient)

// WithBaseURL overrides the default directory base URL.
func WithBaseURL(url string) Option {
	return func(c *restyClient) {
		c.http.SetBaseURL(url)
	}
}

type restyClient struct {
	http *resty.Client
}

// NewClient creates a directory client with a browser-ish user agent and a
// short fixed timeout.
func NewClient(opts ...Option) Client {
	c := &restyClient{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; prospect-cli/1.0)"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search fetches one page of results for a what/where query and parses the
// listings out of it. Listings that fail to parse are skipped, never fatal.
func (c *restyClient) Search(ctx context.Context, what, where string, page int) ([]Listing, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"what":  what,
			"where": where,
			"page":  strconv.Itoa(max(page, 1)),
		}).
		Get("/search")
	if err != nil {
		return nil, eris.Wrapf(err, "dir411: search %q/%q", what, where)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, eris.Errorf("dir411: unexpected status %d", resp.StatusCode())
	}

	return parseListings(resp.Body())
}

// parseListings extracts listings from a results page document.
func parseListings(html []byte) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "dir411: parse html")
	}

	var listings []Listing
	doc.Find(".listing").Each(func(i int, s *goquery.Selection) {
		l := Listing{
			Name:     text(s, ".listing__name"),
			Street:   text(s, ".listing__address .street"),
			City:     text(s, ".listing__address .city"),
			Province: text(s, ".listing__address .province"),
			Phone:    text(s, ".listing__phone"),
			Category: text(s, ".listing__category"),
		}
		if l.Name == "" {
			zap.L().Debug("dir411: skipping listing with no name", zap.Int("index", i))
			return
		}
		listings = append(listings, l)
	})

	return listings, nil
}

func text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
