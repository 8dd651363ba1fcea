package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "cafe in Benz Circle, Vijayawada", q.Get("q"))
		assert.Equal(t, "jsonv2", q.Get("format"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "in", q.Get("countrycodes"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"place_id": 12345,
				"display_name": "Barista Coffee, MG Road, Benz Circle, Vijayawada, Andhra Pradesh, 520010, India",
				"name": "Barista Coffee",
				"class": "amenity",
				"type": "cafe",
				"lat": "16.4967",
				"lon": "80.6565",
				"address": {
					"amenity": "Barista Coffee",
					"road": "MG Road",
					"suburb": "Benz Circle",
					"city": "Vijayawada",
					"state": "Andhra Pradesh",
					"postcode": "520010",
					"country": "India"
				}
			}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(100))
	got, err := client.Search(context.Background(), SearchRequest{
		Query:        "cafe in Benz Circle, Vijayawada",
		CountryCodes: "in",
		Limit:        5,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Barista Coffee", got[0].Name)
	assert.Equal(t, "cafe", got[0].Type)
	assert.Equal(t, "Benz Circle", got[0].Address.Suburb)
	assert.Equal(t, "Vijayawada", got[0].Address.City)
}

func TestSearch_EmptyResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(100))
	got, err := client.Search(context.Background(), SearchRequest{Query: "gym in Nowhere"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("blocked"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(100))
	_, err := client.Search(context.Background(), SearchRequest{Query: "gym"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSearch_RateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	client := NewClient(WithRateLimit(0.001))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, SearchRequest{Query: "gym"})
	require.Error(t, err)
}
