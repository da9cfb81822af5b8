package sos

import (
	"context"
	"time"
)

// Repository defines storage for SOS events.
type Repository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *Event) error

	// Get retrieves an event by ID.
	Get(ctx context.Context, id string) (*Event, error)

	// ListByUser returns a user's events, newest first.
	ListByUser(ctx context.Context, username string) ([]*Event, error)

	// MarkDispatched records that the worker processed the event.
	MarkDispatched(ctx context.Context, id string, at time.Time) error
}
