package rdap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain_ParsesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain/example.ca", r.URL.Path)
		w.Header().Set("Content-Type", "application/rdap+json")
		w.Write([]byte(`{
			"ldhName": "example.ca",
			"events": [
				{"eventAction": "registration", "eventDate": "2008-03-14T09:30:00Z"},
				{"eventAction": "expiration", "eventDate": "2026-03-14T09:30:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp, err := c.Domain(context.Background(), "example.ca")
	require.NoError(t, err)
	assert.Equal(t, "example.ca", resp.LDHName)

	reg, ok := resp.RegistrationDate()
	require.True(t, ok)
	assert.Equal(t, 2008, reg.Year())
}

func TestDomain_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Domain(context.Background(), "nope.invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRegistrationDate_MissingEvent(t *testing.T) {
	resp := &DomainResponse{Events: []Event{{Action: "expiration", Date: "2026-01-01T00:00:00Z"}}}
	_, ok := resp.RegistrationDate()
	assert.False(t, ok)
}

func TestRegistrationDate_MalformedDate(t *testing.T) {
	resp := &DomainResponse{Events: []Event{{Action: "registration", Date: "yesterday"}}}
	_, ok := resp.RegistrationDate()
	assert.False(t, ok)
}
