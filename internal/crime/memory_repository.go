package crime

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	points  map[int][]*Point
	reports []*Report
}

// NewInMemoryRepository creates a new in-memory crime repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		points: make(map[int][]*Point),
	}
}

// ListByYear returns all dataset points for a year.
func (r *InMemoryRepository) ListByYear(_ context.Context, year int) ([]*Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := r.points[year]
	out := make([]*Point, len(points))
	for i, p := range points {
		cpy := *p
		out[i] = &cpy
	}
	return out, nil
}

// InsertPoints adds dataset points.
func (r *InMemoryRepository) InsertPoints(_ context.Context, points []*Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range points {
		cpy := *p
		r.points[p.Year] = append(r.points[p.Year], &cpy)
	}
	return nil
}

// Years returns the years with at least one dataset point, ascending.
func (r *InMemoryRepository) Years(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	years := make([]int, 0, len(r.points))
	for year, points := range r.points {
		if len(points) > 0 {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// CreateReport persists a user-submitted report.
func (r *InMemoryRepository) CreateReport(_ context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *report
	r.reports = append(r.reports, &cpy)
	return nil
}

// ListReports returns reports submitted by a user, newest first.
func (r *InMemoryRepository) ListReports(_ context.Context, username string) ([]*Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Report
	for _, rep := range r.reports {
		if rep.Username == username {
			cpy := *rep
			out = append(out, &cpy)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
