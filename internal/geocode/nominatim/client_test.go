package nominatim_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayguard/wayguard/internal/geocode"
	"github.com/wayguard/wayguard/internal/geocode/nominatim"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "MG Road Bengaluru", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		response := []map[string]string{
			{
				"lat":          "12.9758",
				"lon":          "77.6045",
				"display_name": "Mahatma Gandhi Road, Bengaluru, Karnataka, India",
			},
			{
				"lat":          "12.9762",
				"lon":          "77.6033",
				"display_name": "MG Road Metro Station, Bengaluru, Karnataka, India",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	places, err := client.Search(context.Background(), "MG Road Bengaluru", 3)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Mahatma Gandhi Road, Bengaluru, Karnataka, India", places[0].DisplayName)
	assert.InDelta(t, 12.9758, places[0].Coordinate.Lat, 1e-9)
	assert.InDelta(t, 77.6045, places[0].Coordinate.Lon, 1e-9)
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    "http://unused",
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Search(context.Background(), "   ", 1)
	assert.ErrorIs(t, err, geocode.ErrEmptyQuery)
}

func TestClient_Search_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Search(context.Background(), "nowhere at all", 1)
	assert.ErrorIs(t, err, geocode.ErrNoResults)
}

func TestClient_Search_SkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := []map[string]string{
			{"lat": "not-a-number", "lon": "77.6", "display_name": "bad lat"},
			{"lat": "95.0", "lon": "77.6", "display_name": "out of range"},
			{"lat": "12.97", "lon": "77.59", "display_name": "good"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	places, err := client.Search(context.Background(), "somewhere", 3)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "good", places[0].DisplayName)
}

func TestClient_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Search(context.Background(), "somewhere", 1)
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}
