package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "importers in Toronto", req["textQuery"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"places": [{
			"displayName": {"text": "Maple Leaf Imports"},
			"formattedAddress": "123 King St W, Toronto, ON M5H 1A1",
			"nationalPhoneNumber": "(416) 555-0100",
			"websiteUri": "https://mapleleafimports.ca",
			"types": ["wholesaler"],
			"rating": 4.2,
			"userRatingCount": 87
		}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.TextSearch(context.Background(), "importers in Toronto")
	require.NoError(t, err)

	require.Len(t, resp.Places, 1)
	p := resp.Places[0]
	assert.Equal(t, "Maple Leaf Imports", p.DisplayName.Text)
	assert.Equal(t, "https://mapleleafimports.ca", p.WebsiteURI)
	assert.Equal(t, 87, p.UserRatingCount)
}

func TestTextSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.TextSearch(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
