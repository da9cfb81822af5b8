package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Source is the external path provider.
	Source PathSource

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache path responses (default: 5 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.005 ~ 550m).
	// Endpoints within the same grid cell share cached paths.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale paths on provider errors (default: 15 minutes).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 5 minutes).
	CleanupInterval time.Duration
}

// Service provides candidate paths with caching in front of the external
// provider. A cached response spares the provider quota when the user
// re-requests the same trip shortly after, which the app does whenever the
// route screen is reopened.
type Service struct {
	source          PathSource
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedPaths
	lastCleanup time.Time
}

type cachedPaths struct {
	response  *PathResponse
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.005 // ~550m at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 5 * time.Minute
	}

	return &Service{
		source:          cfg.Source,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedPaths),
	}
}

// GetPaths returns candidate paths between two points, from cache when fresh.
// Paths with fewer than two polyline points are dropped; if nothing usable
// remains the call fails with ErrNoRouteFound.
func (s *Service) GetPaths(ctx context.Context, req PathRequest) (*PathResponse, error) {
	if !req.Source.Valid() {
		return nil, &Error{
			Provider: s.source.Name(),
			Code:     "INVALID_SOURCE",
			Message:  "invalid source coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if !req.Destination.Valid() {
		return nil, &Error{
			Provider: s.source.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	cacheKey := s.cacheKey(req)

	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for paths")
		return cached.response, nil
	}
	s.mu.RUnlock()

	return s.fetchPaths(ctx, req, cacheKey)
}

// fetchPaths fetches paths from the provider and updates the cache.
func (s *Service) fetchPaths(ctx context.Context, req PathRequest, cacheKey string) (*PathResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit after double-check")
		return cached.response, nil
	}

	s.logger.Debug().
		Float64("source_lat", req.Source.Lat).
		Float64("source_lon", req.Source.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Str("provider", s.source.Name()).
		Msg("fetching paths from provider")

	resp, err := s.source.GetPaths(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("source_lat", req.Source.Lat).
			Float64("source_lon", req.Source.Lon).
			Float64("dest_lat", req.Destination.Lat).
			Float64("dest_lon", req.Destination.Lon).
			Msg("failed to fetch paths")

		// Stale-if-error: a recently expired response beats no route at all.
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", cacheKey).
					Msg("serving stale paths due to provider error")
				return cached.response, nil
			}
		}

		return nil, err
	}

	resp.Paths = dropDegeneratePaths(resp.Paths)
	if len(resp.Paths) == 0 {
		return nil, &Error{
			Provider: s.source.Name(),
			Code:     "EMPTY_RESPONSE",
			Message:  "provider returned no usable paths",
			Err:      ErrNoRouteFound,
		}
	}

	now := time.Now()
	s.cache[cacheKey] = &cachedPaths{
		response:  resp,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", cacheKey).
		Int("path_count", len(resp.Paths)).
		Msg("cached path response")

	s.cleanupIfNeeded()

	return resp, nil
}

// dropDegeneratePaths removes paths that cannot be traversed or classified.
func dropDegeneratePaths(paths []CandidatePath) []CandidatePath {
	usable := paths[:0]
	for _, p := range paths {
		if len(p.Polyline) < 2 || p.DistanceMeters < 0 || p.DurationSeconds < 0 {
			continue
		}
		usable = append(usable, p)
	}
	return usable
}

// cacheKey generates a cache key for a path request using grid-based
// quantization of both endpoints.
// Format: {gridSrcLat},{gridSrcLon}:{gridDestLat},{gridDestLon}.
func (s *Service) cacheKey(req PathRequest) string {
	gridSrcLat := math.Floor(req.Source.Lat/s.cacheGridSize) * s.cacheGridSize
	gridSrcLon := math.Floor(req.Source.Lon/s.cacheGridSize) * s.cacheGridSize
	gridDestLat := math.Floor(req.Destination.Lat/s.cacheGridSize) * s.cacheGridSize
	gridDestLon := math.Floor(req.Destination.Lon/s.cacheGridSize) * s.cacheGridSize

	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f",
		gridSrcLat, gridSrcLon,
		gridDestLat, gridDestLon,
	)
}

// cleanupIfNeeded removes expired entries if the cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired path cache entries")
	}
}

// InvalidateCache clears all cached paths.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedPaths)
}

// Name returns the name of the underlying provider.
func (s *Service) Name() string {
	return s.source.Name()
}

var _ PathSource = (*Service)(nil)
