package crime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/geo"
)

// ServiceConfig holds configuration for the crime data service.
type ServiceConfig struct {
	// Repository is the dataset store.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache a year's points (default: 15 minutes).
	CacheTTL time.Duration

	// Exposure configures route exposure scoring.
	Exposure ExposureConfig
}

// cachedYear holds one year's points with an expiry.
type cachedYear struct {
	points []*Point
	expiry time.Time
}

// Service provides crime dataset access with a per-year cache, report
// submission, and route exposure scoring.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	cacheTTL time.Duration
	scorer   *Scorer

	mu    sync.RWMutex
	years map[int]cachedYear
}

// NewService creates a new crime data service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		scorer:   NewScorer(cfg.Exposure),
		years:    make(map[int]cachedYear),
	}
}

// PointsForYear returns the dataset for a year, cached.
func (s *Service) PointsForYear(ctx context.Context, year int) ([]*Point, error) {
	if year < 1900 || year > 2200 {
		return nil, ErrInvalidYear
	}

	s.mu.RLock()
	cached, ok := s.years[year]
	s.mu.RUnlock()
	if ok && time.Now().Before(cached.expiry) {
		return cached.points, nil
	}

	return s.refreshYear(ctx, year)
}

// Years returns the years available in the dataset.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.repo.Years(ctx)
}

// RefreshYear forces a cache refresh for one year.
func (s *Service) RefreshYear(ctx context.Context, year int) error {
	_, err := s.refreshYear(ctx, year)
	return err
}

// InvalidateCache clears all cached years.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years = make(map[int]cachedYear)
}

// SubmitReport validates and persists a user complaint, and folds it into
// the current year's dataset as a provisional point so fresh reports affect
// exposure scores immediately.
func (s *Service) SubmitReport(ctx context.Context, report *Report) (*Report, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	if err := report.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	point := &Point{
		ID:          uuid.NewString(),
		Year:        report.CreatedAt.Year(),
		Coordinate:  report.Coordinate,
		Intensity:   provisionalIntensity(report.Category),
		Category:    report.Category,
		Description: report.Description,
		OccurredAt:  report.CreatedAt,
	}
	if err := s.repo.InsertPoints(ctx, []*Point{point}); err != nil {
		return nil, fmt.Errorf("insert provisional point: %w", err)
	}

	s.mu.Lock()
	delete(s.years, point.Year)
	s.mu.Unlock()

	s.logger.Info().
		Str("report_id", report.ID).
		Str("category", string(report.Category)).
		Int("year", point.Year).
		Msg("crime report submitted")

	return report, nil
}

// ReportsByUser returns a user's submitted reports, newest first.
func (s *Service) ReportsByUser(ctx context.Context, username string) ([]*Report, error) {
	return s.repo.ListReports(ctx, username)
}

// ExposureScore estimates a route's crime exposure against a year's dataset.
func (s *Service) ExposureScore(ctx context.Context, polyline []geo.Coordinate, year int) (*Exposure, error) {
	points, err := s.PointsForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return s.scorer.Score(polyline, points)
}

// provisionalIntensity maps a reporter-assessed category to a conservative
// midpoint intensity until review assigns a real one.
func provisionalIntensity(category Category) float64 {
	switch category {
	case CategoryHigh:
		return 0.85
	case CategoryMedium:
		return 0.55
	default:
		return 0.2
	}
}

// refreshYear fetches a year's points from the repository.
func (s *Service) refreshYear(ctx context.Context, year int) ([]*Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check: another goroutine might have refreshed while we waited.
	if cached, ok := s.years[year]; ok && time.Now().Before(cached.expiry) {
		return cached.points, nil
	}

	points, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list crime points: %w", err)
	}

	s.years[year] = cachedYear{
		points: points,
		expiry: time.Now().Add(s.cacheTTL),
	}

	s.logger.Debug().
		Int("year", year).
		Int("points", len(points)).
		Msg("crime dataset year cached")

	return points, nil
}
