// Package rdap queries the RDAP protocol for domain registration data.
package rdap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://rdap.org"

// eventActionRegistration is the RDAP event action for domain creation.
const eventActionRegistration = "registration"

// Client performs RDAP domain lookups.
type Client interface {
	Domain(ctx context.Context, domain string) (*DomainResponse, error)
}

// DomainResponse is the subset of an RDAP domain object we consume.
type DomainResponse struct {
	LDHName string  `json:"ldhName"`
	Events  []Event `json:"events"`
}

// Event is a dated lifecycle event on a domain.
type Event struct {
	Action string `json:"eventAction"`
	Date   string `json:"eventDate"`
}

// RegistrationDate returns the parsed registration event date, or false if
// the response carries no registration event or the date is malformed.
func (r *DomainResponse) RegistrationDate() (time.Time, bool) {
	for _, e := range r.Events {
		if !strings.EqualFold(e.Action, eventActionRegistration) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, e.Date)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}

// Option configures the client.
type Option func(*restyClient)

// WithBaseURL overrides the default RDAP bootstrap URL.
func WithBaseURL(url string) Option {
	return func(c *restyClient) {
		c.http.SetBaseURL(url)
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *restyClient) {
		c.http.SetTimeout(d)
	}
}

type restyClient struct {
	http *resty.Client
}

// NewClient creates an RDAP client with a short fixed timeout.
func NewClient(opts ...Option) Client {
	c := &restyClient{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/rdap+json"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *restyClient) Domain(ctx context.Context, domain string) (*DomainResponse, error) {
	var out DomainResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/domain/" + domain)
	if err != nil {
		return nil, eris.Wrapf(err, "rdap: lookup %s", domain)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, eris.Errorf("rdap: unexpected status %d for %s", resp.StatusCode(), domain)
	}
	return &out, nil
}
