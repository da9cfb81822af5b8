package user

import "context"

// Repository defines storage for user profiles.
type Repository interface {
	// Create persists a new profile. Returns ErrUserExists when the ID or
	// username is already taken.
	Create(ctx context.Context, profile *Profile) error

	// Get retrieves a profile by user ID.
	Get(ctx context.Context, id string) (*Profile, error)

	// GetByUsername retrieves a profile by username.
	GetByUsername(ctx context.Context, username string) (*Profile, error)

	// Update replaces a profile.
	Update(ctx context.Context, profile *Profile) error

	// Delete removes a profile.
	Delete(ctx context.Context, id string) error
}
