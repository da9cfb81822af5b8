package user

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	byName   map[string]string
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*Profile),
		byName:   make(map[string]string),
	}
}

// Create persists a new profile.
func (r *InMemoryRepository) Create(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; ok {
		return ErrUserExists
	}
	if _, ok := r.byName[profile.Username]; ok {
		return ErrUserExists
	}

	r.profiles[profile.ID] = copyProfile(profile)
	r.byName[profile.Username] = profile.ID
	return nil
}

// Get retrieves a profile by user ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyProfile(profile), nil
}

// GetByUsername retrieves a profile by username.
func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyProfile(r.profiles[id]), nil
}

// Update replaces a profile.
func (r *InMemoryRepository) Update(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[profile.ID]
	if !ok {
		return ErrUserNotFound
	}

	if existing.Username != profile.Username {
		delete(r.byName, existing.Username)
		r.byName[profile.Username] = profile.ID
	}
	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// Delete removes a profile.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile, ok := r.profiles[id]; ok {
		delete(r.byName, profile.Username)
		delete(r.profiles, id)
	}
	return nil
}

func copyProfile(p *Profile) *Profile {
	cpy := *p
	cpy.EmergencyContacts = append([]EmergencyContact(nil), p.EmergencyContacts...)
	return &cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
