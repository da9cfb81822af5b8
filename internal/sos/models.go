// Package sos manages emergency events and their outbound notification links.
package sos

import (
	"errors"
	"time"

	"github.com/wayguard/wayguard/internal/geo"
)

// Sentinel errors for SOS operations.
var (
	ErrEventNotFound = errors.New("sos event not found")
	ErrInvalidEvent  = errors.New("invalid sos event")
	ErrNoContacts    = errors.New("sos event has no contacts")
)

// Status tracks an event through dispatch.
type Status string

const (
	// StatusPending means the event is stored but contacts have not been
	// notified yet.
	StatusPending Status = "pending"

	// StatusDispatched means the worker has processed the event.
	StatusDispatched Status = "dispatched"
)

// Contact is an emergency contact to notify.
type Contact struct {
	// Name is the contact's display name.
	Name string

	// Phone is the contact's number in international format. Non-digit
	// characters are stripped when building links.
	Phone string
}

// Event is a triggered SOS.
type Event struct {
	// ID is the unique event identifier.
	ID string

	// Username of the person in distress.
	Username string

	// Coordinate is the last known position.
	Coordinate geo.Coordinate

	// Address is the reverse-geocoded or user-entered location description.
	Address string

	// Contacts to notify.
	Contacts []Contact

	// Status of dispatch processing.
	Status Status

	// CreatedAt is when the SOS was triggered.
	CreatedAt time.Time

	// DispatchedAt is when the worker completed dispatch, if it has.
	DispatchedAt *time.Time
}

// Validate checks the event's fields.
func (e *Event) Validate() error {
	if e.Username == "" {
		return ErrInvalidEvent
	}
	if !e.Coordinate.Valid() {
		return ErrInvalidEvent
	}
	if len(e.Contacts) == 0 {
		return ErrNoContacts
	}
	for _, c := range e.Contacts {
		if len(digitsOnly(c.Phone)) < 8 {
			return ErrInvalidEvent
		}
	}
	return nil
}

// digitsOnly strips everything but digits from a phone number.
func digitsOnly(phone string) string {
	out := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			out = append(out, phone[i])
		}
	}
	return string(out)
}
