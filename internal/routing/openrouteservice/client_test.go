package openrouteservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/routing"
)

// mockHTTPClient wraps http.Client to implement HTTPDoer interface.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

// mockFailingClient simulates network errors.
type mockFailingClient struct{}

func (m *mockFailingClient) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("network error")
}

func directionsFixture() []byte {
	geometry := geo.EncodePolyline([]geo.Coordinate{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 12.9740, Lon: 77.6000},
		{Lat: 12.9758, Lon: 77.6045},
	})
	return []byte(fmt.Sprintf(`{
		"routes": [
			{"summary": {"distance": 1234.5, "duration": 881.0}, "geometry": %q},
			{"summary": {"distance": 1890.0, "duration": 1350.0}, "geometry": %q}
		]
	}`, geometry, geometry))
}

func TestClient_GetPaths_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "mock123" {
			t.Errorf("expected Authorization header 'mock123', got '%s'", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type 'application/json', got '%s'", r.Header.Get("Content-Type"))
		}

		expectedPath := "/v2/directions/" + DefaultProfile
		if r.URL.Path != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(directionsFixture())
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	resp, err := client.GetPaths(context.Background(), routing.PathRequest{
		Source:          geo.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination:     geo.Coordinate{Lat: 12.9758, Lon: 77.6045},
		MaxAlternatives: 2,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Provider != ProviderName {
		t.Errorf("expected provider %s, got %s", ProviderName, resp.Provider)
	}
	if len(resp.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(resp.Paths))
	}

	path := resp.Paths[0]
	if path.DistanceMeters != 1234.5 {
		t.Errorf("expected distance 1234.5, got %f", path.DistanceMeters)
	}
	if path.DurationSeconds != 881.0 {
		t.Errorf("expected duration 881.0, got %f", path.DurationSeconds)
	}
	if len(path.Polyline) != 3 {
		t.Errorf("expected 3 polyline points, got %d", len(path.Polyline))
	}
}

func TestClient_GetPaths_NoRouteFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":2009,"message":"Route could not be found between the given coordinates"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetPaths(context.Background(), routing.PathRequest{
		Source:      geo.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: geo.Coordinate{Lat: 12.9758, Lon: 77.6045},
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", routingErr.Err)
	}
}

func TestClient_GetPaths_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetPaths(context.Background(), routing.PathRequest{
		Source:      geo.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: geo.Coordinate{Lat: 12.9758, Lon: 77.6045},
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", routingErr.Err)
	}
}

func TestClient_GetPaths_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		name        string
		source      geo.Coordinate
		destination geo.Coordinate
	}{
		{
			name:        "latitude out of range",
			source:      geo.Coordinate{Lat: 91.0, Lon: 77.59},
			destination: geo.Coordinate{Lat: 12.97, Lon: 77.60},
		},
		{
			name:        "negative latitude out of range",
			source:      geo.Coordinate{Lat: -91.0, Lon: 77.59},
			destination: geo.Coordinate{Lat: 12.97, Lon: 77.60},
		},
		{
			name:        "longitude out of range",
			source:      geo.Coordinate{Lat: 12.97, Lon: 77.59},
			destination: geo.Coordinate{Lat: 12.97, Lon: 181.0},
		},
		{
			name:        "negative longitude out of range",
			source:      geo.Coordinate{Lat: 12.97, Lon: 77.59},
			destination: geo.Coordinate{Lat: 12.97, Lon: -181.0},
		},
	}

	client := NewClient(ClientConfig{
		APIKey: "mock123",
		Logger: zerolog.Nop(),
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetPaths(context.Background(), routing.PathRequest{
				Source:      tt.source,
				Destination: tt.destination,
			})

			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var routingErr *routing.Error
			if !errors.As(err, &routingErr) {
				t.Fatalf("expected routing.Error, got %T", err)
			}
			if !errors.Is(routingErr.Err, routing.ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got %v", routingErr.Err)
			}
		})
	}
}

func TestClient_GetPaths_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"Internal server error"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetPaths(context.Background(), routing.PathRequest{
		Source:      geo.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: geo.Coordinate{Lat: 12.9758, Lon: 77.6045},
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", routingErr.Err)
	}
}

func TestClient_GetPaths_NetworkError(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		HTTPClient: &mockFailingClient{},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetPaths(context.Background(), routing.PathRequest{
		Source:      geo.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: geo.Coordinate{Lat: 12.9758, Lon: 77.6045},
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", routingErr.Err)
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey: "test",
		Logger: zerolog.Nop(),
	})

	if client.Name() != ProviderName {
		t.Errorf("expected %s, got %s", ProviderName, client.Name())
	}
}

func TestError_IsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      *routing.Error
		expected bool
	}{
		{
			name:     "provider unavailable is retryable",
			err:      &routing.Error{Err: routing.ErrProviderUnavailable},
			expected: true,
		},
		{
			name:     "rate limit is retryable",
			err:      &routing.Error{Err: routing.ErrRateLimitExceeded},
			expected: true,
		},
		{
			name:     "no route found is not retryable",
			err:      &routing.Error{Err: routing.ErrNoRouteFound},
			expected: false,
		},
		{
			name:     "invalid coordinates is not retryable",
			err:      &routing.Error{Err: routing.ErrInvalidCoordinates},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.IsRetryable() != tt.expected {
				t.Errorf("IsRetryable() = %v, expected %v", tt.err.IsRetryable(), tt.expected)
			}
		})
	}
}
