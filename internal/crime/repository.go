package crime

import "context"

// Repository defines storage for crime dataset points and reports.
type Repository interface {
	// ListByYear returns all dataset points for a year.
	ListByYear(ctx context.Context, year int) ([]*Point, error)

	// InsertPoints adds dataset points, replacing nothing.
	InsertPoints(ctx context.Context, points []*Point) error

	// Years returns the years with at least one dataset point, ascending.
	Years(ctx context.Context) ([]int, error)

	// CreateReport persists a user-submitted report.
	CreateReport(ctx context.Context, report *Report) error

	// ListReports returns reports submitted by a user, newest first.
	ListReports(ctx context.Context, username string) ([]*Report, error)
}
