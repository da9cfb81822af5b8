// Package geocode defines place lookup used to turn free-text destinations
// into coordinates.
package geocode

import (
	"context"
	"errors"

	"github.com/wayguard/wayguard/internal/geo"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNoResults indicates the query matched no known place.
	ErrNoResults = errors.New("no geocoding results")

	// ErrProviderUnavailable indicates the geocoding provider could not be reached.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")

	// ErrEmptyQuery indicates a blank search query.
	ErrEmptyQuery = errors.New("empty geocoding query")
)

// Place is a resolved location.
type Place struct {
	// DisplayName is the human-readable place name.
	DisplayName string

	// Coordinate is the resolved position.
	Coordinate geo.Coordinate
}

// Geocoder resolves free-text queries to places.
type Geocoder interface {
	// Search returns up to limit places matching the query, best match first.
	Search(ctx context.Context, query string, limit int) ([]Place, error)

	// Name identifies the provider.
	Name() string
}
