// Package worker processes background jobs queued by the API.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/crime"
	"github.com/wayguard/wayguard/internal/sos"
)

// DispatchJob executes SOS dispatch and crime refresh jobs.
type DispatchJob struct {
	sosService   *sos.Service
	crimeService *crime.Service
	logger       zerolog.Logger
}

// DispatchJobConfig holds configuration for the dispatch job.
type DispatchJobConfig struct {
	SOSService   *sos.Service
	CrimeService *crime.Service
	Logger       zerolog.Logger
}

// NewDispatchJob creates a new dispatch job.
func NewDispatchJob(cfg DispatchJobConfig) *DispatchJob {
	return &DispatchJob{
		sosService:   cfg.SOSService,
		crimeService: cfg.CrimeService,
		logger:       cfg.Logger,
	}
}

// HandleSOSDispatch delivers the notification links for a pending SOS event
// and marks it dispatched. Delivery here means logging the wa.me links for
// each contact; the links themselves are what reach the contact's device.
func (j *DispatchJob) HandleSOSDispatch(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("sos dispatch: missing event id")
	}

	event, err := j.sosService.Get(ctx, eventID)
	if err != nil {
		return fmt.Errorf("sos dispatch: load event %s: %w", eventID, err)
	}

	links := sos.BuildLinks(event)
	for _, link := range links {
		j.logger.Info().
			Str("event_id", event.ID).
			Str("contact", link.ContactName).
			Str("url", link.URL).
			Msg("sos notification link")
	}

	if err := j.sosService.MarkDispatched(ctx, event.ID); err != nil {
		return fmt.Errorf("sos dispatch: mark dispatched %s: %w", event.ID, err)
	}

	return nil
}

// HandleCrimeRefresh reloads the crime dataset for a year from the store.
// A zero year refreshes the current year.
func (j *DispatchJob) HandleCrimeRefresh(ctx context.Context, year int) error {
	if year == 0 {
		year = time.Now().Year()
	}

	if err := j.crimeService.RefreshYear(ctx, year); err != nil {
		return fmt.Errorf("crime refresh: year %d: %w", year, err)
	}

	j.logger.Info().
		Int("year", year).
		Msg("crime dataset refreshed")
	return nil
}
