package sos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher enqueues events for asynchronous dispatch by the worker.
type Publisher interface {
	PublishSOS(ctx context.Context, event *Event) error
}

// ServiceConfig holds configuration for the SOS service.
type ServiceConfig struct {
	// Repository is the event store.
	Repository Repository

	// Publisher enqueues dispatch jobs. Optional; when nil, events are
	// stored and links returned but no dispatch job is queued.
	Publisher Publisher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service persists SOS events and produces notification links.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    zerolog.Logger
}

// NewService creates a new SOS service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repository,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}

// Trigger validates and stores an SOS event, queues it for dispatch, and
// returns the notification links. A publish failure is logged but does not
// fail the trigger: the caller still gets the links and the event stays
// pending for a later sweep.
func (s *Service) Trigger(ctx context.Context, event *Event) (*Event, []NotificationLink, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.Status = StatusPending
	event.DispatchedAt = nil

	if err := event.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create sos event: %w", err)
	}

	links := BuildLinks(event)

	if s.publisher != nil {
		if err := s.publisher.PublishSOS(ctx, event); err != nil {
			s.logger.Warn().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to queue sos dispatch, event stays pending")
		}
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Str("username", event.Username).
		Int("contacts", len(event.Contacts)).
		Msg("sos triggered")

	return event, links, nil
}

// Get retrieves an event by ID.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.Get(ctx, id)
}

// EventsByUser returns a user's events, newest first.
func (s *Service) EventsByUser(ctx context.Context, username string) ([]*Event, error) {
	return s.repo.ListByUser(ctx, username)
}

// MarkDispatched records that the worker completed dispatch for an event.
func (s *Service) MarkDispatched(ctx context.Context, id string) error {
	if err := s.repo.MarkDispatched(ctx, id, time.Now()); err != nil {
		return err
	}

	s.logger.Info().
		Str("event_id", id).
		Msg("sos event dispatched")
	return nil
}
