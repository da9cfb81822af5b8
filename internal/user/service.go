package user

import (
	"context"
	"time"
)

// Service provides user profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProfile creates a profile for a newly registered user.
func (s *Service) CreateProfile(ctx context.Context, id, username, phone string) (*Profile, error) {
	now := time.Now()
	profile := &Profile{
		ID:        id,
		Username:  username,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile retrieves a profile by user ID.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.Get(ctx, id)
}

// GetByUsername retrieves a profile by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	return s.repo.GetByUsername(ctx, username)
}

// UpdatePhone changes the user's own phone number.
func (s *Service) UpdatePhone(ctx context.Context, id, phone string) (*Profile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.Phone = phone
	profile.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AddContact appends an emergency contact.
func (s *Service) AddContact(ctx context.Context, id string, contact EmergencyContact) (*Profile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(profile.EmergencyContacts) >= MaxEmergencyContacts {
		return nil, ErrTooManyContacts
	}
	for _, existing := range profile.EmergencyContacts {
		if existing.Phone == contact.Phone {
			return nil, ErrDuplicateContact
		}
	}

	profile.EmergencyContacts = append(profile.EmergencyContacts, contact)
	profile.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveContact removes an emergency contact by phone number.
func (s *Service) RemoveContact(ctx context.Context, id, phone string) (*Profile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	contacts := profile.EmergencyContacts[:0]
	found := false
	for _, contact := range profile.EmergencyContacts {
		if contact.Phone == phone {
			found = true
			continue
		}
		contacts = append(contacts, contact)
	}
	if !found {
		return nil, ErrContactNotFound
	}

	profile.EmergencyContacts = contacts
	profile.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a user's profile.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
