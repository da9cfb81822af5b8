package sos

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*Event
}

// NewInMemoryRepository creates a new in-memory SOS repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		events: make(map[string]*Event),
	}
}

// Create persists a new event.
func (r *InMemoryRepository) Create(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *event
	cpy.Contacts = append([]Contact(nil), event.Contacts...)
	r.events[event.ID] = &cpy
	return nil
}

// Get retrieves an event by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}

	cpy := *event
	cpy.Contacts = append([]Contact(nil), event.Contacts...)
	return &cpy, nil
}

// ListByUser returns a user's events, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, username string) ([]*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*Event
	for _, event := range r.events {
		if event.Username == username {
			cpy := *event
			cpy.Contacts = append([]Contact(nil), event.Contacts...)
			events = append(events, &cpy)
		}
	}
	sort.Slice(events, func(a, b int) bool {
		return events[a].CreatedAt.After(events[b].CreatedAt)
	})
	return events, nil
}

// MarkDispatched records that the worker processed the event.
func (r *InMemoryRepository) MarkDispatched(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}

	event.Status = StatusDispatched
	event.DispatchedAt = &at
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
