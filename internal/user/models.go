// Package user provides user profile and emergency contact management.
package user

import (
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrContactNotFound  = errors.New("emergency contact not found")
	ErrTooManyContacts  = errors.New("emergency contact limit reached")
	ErrDuplicateContact = errors.New("emergency contact already exists")
)

// MaxEmergencyContacts caps the contact list per profile.
const MaxEmergencyContacts = 5

// EmergencyContact is a person to notify on SOS.
type EmergencyContact struct {
	// Name is the contact's display name.
	Name string

	// Phone is the contact's number in international format.
	Phone string
}

// Profile is a user's account profile.
type Profile struct {
	// ID is the unique user identifier.
	ID string

	// Username is the unique login name, shown in SOS messages.
	Username string

	// Phone is the user's own number.
	Phone string

	// EmergencyContacts are notified when the user triggers an SOS.
	EmergencyContacts []EmergencyContact

	// CreatedAt is when the profile was created.
	CreatedAt time.Time

	// UpdatedAt is when the profile was last updated.
	UpdatedAt time.Time
}

// Validate checks the profile's fields.
func (p *Profile) Validate() error {
	if p.Username == "" {
		return ErrInvalidProfile
	}
	if len(p.EmergencyContacts) > MaxEmergencyContacts {
		return ErrTooManyContacts
	}
	return nil
}
