package crime

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL crime repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListByYear returns all dataset points for a year.
func (r *PostgresRepository) ListByYear(ctx context.Context, year int) ([]*Point, error) {
	query := `
		SELECT id, year, lat, lon, intensity, category, description, occurred_at
		FROM crime_points
		WHERE year = $1
		ORDER BY occurred_at
	`

	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*Point
	for rows.Next() {
		var p Point
		err := rows.Scan(
			&p.ID,
			&p.Year,
			&p.Coordinate.Lat,
			&p.Coordinate.Lon,
			&p.Intensity,
			&p.Category,
			&p.Description,
			&p.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// InsertPoints adds dataset points in a single batch.
func (r *PostgresRepository) InsertPoints(ctx context.Context, points []*Point) error {
	if len(points) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO crime_points (id, year, lat, lon, intensity, category, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, p := range points {
		batch.Queue(query,
			p.ID,
			p.Year,
			p.Coordinate.Lat,
			p.Coordinate.Lon,
			p.Intensity,
			p.Category,
			p.Description,
			p.OccurredAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Years returns the years with at least one dataset point, ascending.
func (r *PostgresRepository) Years(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT year FROM crime_points ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// CreateReport persists a user-submitted report.
func (r *PostgresRepository) CreateReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO crime_reports (id, username, lat, lon, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.Username,
		report.Coordinate.Lat,
		report.Coordinate.Lon,
		report.Description,
		report.Category,
		report.CreatedAt,
	)
	return err
}

// ListReports returns reports submitted by a user, newest first.
func (r *PostgresRepository) ListReports(ctx context.Context, username string) ([]*Report, error) {
	query := `
		SELECT id, username, lat, lon, description, category, created_at
		FROM crime_reports
		WHERE username = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.ID,
			&rep.Username,
			&rep.Coordinate.Lat,
			&rep.Coordinate.Lon,
			&rep.Description,
			&rep.Category,
			&rep.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
