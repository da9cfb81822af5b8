package sos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL SOS repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a new event. Contacts are stored as a JSONB document.
func (r *PostgresRepository) Create(ctx context.Context, event *Event) error {
	contacts, err := json.Marshal(event.Contacts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sos_events (id, username, lat, lon, address, contacts, status, created_at, dispatched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		event.ID,
		event.Username,
		event.Coordinate.Lat,
		event.Coordinate.Lon,
		event.Address,
		contacts,
		event.Status,
		event.CreatedAt,
		event.DispatchedAt,
	)
	return err
}

// Get retrieves an event by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Event, error) {
	query := `
		SELECT id, username, lat, lon, address, contacts, status, created_at, dispatched_at
		FROM sos_events
		WHERE id = $1
	`

	return r.scanEvent(r.pool.QueryRow(ctx, query, id))
}

// ListByUser returns a user's events, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, username string) ([]*Event, error) {
	query := `
		SELECT id, username, lat, lon, address, contacts, status, created_at, dispatched_at
		FROM sos_events
		WHERE username = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// MarkDispatched records that the worker processed the event.
func (r *PostgresRepository) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE sos_events
		SET status = $2, dispatched_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, StatusDispatched, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// scanEvent scans one event row.
func (r *PostgresRepository) scanEvent(row pgx.Row) (*Event, error) {
	var event Event
	var contacts []byte

	err := row.Scan(
		&event.ID,
		&event.Username,
		&event.Coordinate.Lat,
		&event.Coordinate.Lon,
		&event.Address,
		&contacts,
		&event.Status,
		&event.CreatedAt,
		&event.DispatchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(contacts, &event.Contacts); err != nil {
		return nil, err
	}

	return &event, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
