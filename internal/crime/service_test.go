package crime

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayguard/wayguard/internal/geo"
)

// countingRepo wraps the in-memory repository to observe cache behavior.
type countingRepo struct {
	*InMemoryRepository
	listCalls int
}

func (r *countingRepo) ListByYear(ctx context.Context, year int) ([]*Point, error) {
	r.listCalls++
	return r.InMemoryRepository.ListByYear(ctx, year)
}

func newTestService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	repo := &countingRepo{InMemoryRepository: NewInMemoryRepository()}
	svc := NewService(ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   time.Minute,
	})
	return svc, repo
}

func seedYear(t *testing.T, repo Repository, year, count int) {
	t.Helper()
	points := make([]*Point, count)
	for i := range points {
		points[i] = &Point{
			ID:         time.Now().Format("150405.000000") + string(rune('a'+i)),
			Year:       year,
			Coordinate: geo.Coordinate{Lat: 12.97, Lon: 77.59 + float64(i)*0.001},
			Intensity:  0.5,
			Category:   CategoryMedium,
			OccurredAt: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	require.NoError(t, repo.InsertPoints(context.Background(), points))
}

func TestService_PointsForYear_Cached(t *testing.T) {
	svc, repo := newTestService(t)
	seedYear(t, repo, 2024, 3)

	points, err := svc.PointsForYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Len(t, points, 3)
	assert.Equal(t, 1, repo.listCalls)

	// Second call served from cache.
	_, err = svc.PointsForYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// Different year misses the cache.
	seedYear(t, repo, 2023, 1)
	points, err = svc.PointsForYear(context.Background(), 2023)
	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, 2, repo.listCalls)
}

func TestService_PointsForYear_InvalidYear(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PointsForYear(context.Background(), 42)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestService_InvalidateCache(t *testing.T) {
	svc, repo := newTestService(t)
	seedYear(t, repo, 2024, 1)

	_, err := svc.PointsForYear(context.Background(), 2024)
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.PointsForYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestService_SubmitReport(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.SubmitReport(context.Background(), &Report{
		Username:    "asha",
		Coordinate:  geo.Coordinate{Lat: 12.97, Lon: 77.59},
		Description: "poorly lit underpass",
		Category:    CategoryHigh,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.CreatedAt.IsZero())

	// The report is listed for its author.
	reports, err := svc.ReportsByUser(context.Background(), "asha")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "poorly lit underpass", reports[0].Description)

	// A provisional point lands in the current year's dataset.
	points, err := svc.PointsForYear(context.Background(), report.CreatedAt.Year())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, CategoryHigh, points[0].Category)
	assert.InDelta(t, 0.85, points[0].Intensity, 1e-9)
}

func TestService_SubmitReport_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		report *Report
	}{
		{"missing description", &Report{
			Username:   "asha",
			Coordinate: geo.Coordinate{Lat: 12.97, Lon: 77.59},
			Category:   CategoryLow,
		}},
		{"bad coordinate", &Report{
			Username:    "asha",
			Coordinate:  geo.Coordinate{Lat: 95, Lon: 77.59},
			Description: "x",
			Category:    CategoryLow,
		}},
		{"unknown category", &Report{
			Username:    "asha",
			Coordinate:  geo.Coordinate{Lat: 12.97, Lon: 77.59},
			Description: "x",
			Category:    Category("severe"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitReport(context.Background(), tt.report)
			assert.ErrorIs(t, err, ErrInvalidReport)
		})
	}
}

func TestService_ExposureScore(t *testing.T) {
	svc, repo := newTestService(t)

	require.NoError(t, repo.InsertPoints(context.Background(), []*Point{{
		ID:         "p1",
		Year:       2024,
		Coordinate: geo.Coordinate{Lat: 0, Lon: 0},
		Intensity:  0.9,
		Category:   CategoryHigh,
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}))

	exposure, err := svc.ExposureScore(context.Background(),
		[]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.005}}, 2024)
	require.NoError(t, err)
	assert.Positive(t, exposure.Score)

	// Empty year scores zero with LOW confidence.
	exposure, err = svc.ExposureScore(context.Background(),
		[]geo.Coordinate{{Lat: 50, Lon: 50}, {Lat: 50, Lon: 50.005}}, 2020)
	require.NoError(t, err)
	assert.Zero(t, exposure.Score)
	assert.Equal(t, ConfidenceLow, exposure.Confidence)
}
