package user

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a new profile. Contacts are stored as a JSONB document.
func (r *PostgresRepository) Create(ctx context.Context, profile *Profile) error {
	contacts, err := json.Marshal(profile.EmergencyContacts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_profiles (id, username, phone, emergency_contacts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.pool.Exec(ctx, query,
		profile.ID,
		profile.Username,
		profile.Phone,
		contacts,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, username, phone, emergency_contacts, created_at, updated_at
		FROM user_profiles
		WHERE id = $1
	`
	return r.scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername retrieves a profile by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `
		SELECT id, username, phone, emergency_contacts, created_at, updated_at
		FROM user_profiles
		WHERE username = $1
	`
	return r.scanProfile(r.pool.QueryRow(ctx, query, username))
}

// Update replaces a profile.
func (r *PostgresRepository) Update(ctx context.Context, profile *Profile) error {
	contacts, err := json.Marshal(profile.EmergencyContacts)
	if err != nil {
		return err
	}

	query := `
		UPDATE user_profiles
		SET username = $2, phone = $3, emergency_contacts = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Username,
		profile.Phone,
		contacts,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a profile.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	return err
}

// scanProfile scans one profile row.
func (r *PostgresRepository) scanProfile(row pgx.Row) (*Profile, error) {
	var profile Profile
	var contacts []byte

	err := row.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Phone,
		&contacts,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(contacts, &profile.EmergencyContacts); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
