// Package routing provides the path source contract and a cached directions
// service. Routes are never computed locally; an external provider returns
// candidate paths and this package only validates, caches and exposes them.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/wayguard/wayguard/internal/geo"
)

// Sentinel errors for path source operations.
var (
	// ErrProviderUnavailable indicates the path provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("path provider unavailable")
	// ErrNoRouteFound indicates the provider returned no usable paths between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the provider API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// PathSource defines the contract with an external routing provider.
type PathSource interface {
	// GetPaths retrieves candidate paths between two points. Returns
	// alternatives when the provider has them; a successful response always
	// carries at least one path.
	GetPaths(ctx context.Context, req PathRequest) (*PathResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// PathRequest is the request for candidate paths.
type PathRequest struct {
	Source          geo.Coordinate
	Destination     geo.Coordinate
	MaxAlternatives int // Maximum number of alternative paths to request (default: 2)
}

// PathResponse is the provider response containing candidate paths.
type PathResponse struct {
	Paths     []CandidatePath
	Provider  string
	FetchedAt time.Time
}

// CandidatePath is one raw route returned by the provider. Immutable once
// received; the polyline always has at least two points.
type CandidatePath struct {
	DistanceMeters  float64
	DurationSeconds float64
	Polyline        []geo.Coordinate
}

// Error provides detailed error information from the path provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
