package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/routing"
)

// SessionConfig holds configuration for a navigation session.
type SessionConfig struct {
	// Paths is the candidate path source (typically the cached routing service).
	Paths routing.PathSource

	// Logger for session operations.
	Logger zerolog.Logger

	// MaxAlternatives requested from the provider (default: 2).
	MaxAlternatives int

	// TickInterval is the simulation cadence (default: DefaultTickInterval).
	TickInterval time.Duration

	// ProgressDelta is the per-tick progress increment (default: DefaultProgressDelta).
	ProgressDelta float64
}

// Session owns the navigation state for one user trip: the current
// classification, the selected option, and any running simulation. State is
// replaced wholesale on each new destination. Path requests are
// cancellable-by-replacement: a response is applied only if no newer request
// started while it was in flight.
type Session struct {
	paths           routing.PathSource
	logger          zerolog.Logger
	maxAlternatives int
	tickInterval    time.Duration
	progressDelta   float64

	mu             sync.Mutex
	generation     uint64
	classification *Classification
	cancelRun      context.CancelFunc
}

// NewSession creates a navigation session.
func NewSession(cfg SessionConfig) *Session {
	maxAlternatives := cfg.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = 2
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	progressDelta := cfg.ProgressDelta
	if progressDelta <= 0 || progressDelta > 1 {
		progressDelta = DefaultProgressDelta
	}

	return &Session{
		paths:           cfg.Paths,
		logger:          cfg.Logger,
		maxAlternatives: maxAlternatives,
		tickInterval:    tickInterval,
		progressDelta:   progressDelta,
	}
}

// RequestRoutes fetches candidate paths for a new trip and classifies them.
// A call supersedes any earlier request still in flight: when the older
// response arrives it is discarded with ErrSuperseded instead of clobbering
// the newer classification. On provider failure no partial options are kept;
// the caller surfaces "no route found".
func (s *Session) RequestRoutes(ctx context.Context, source, destination geo.Coordinate) (*Classification, error) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.stopSimulationLocked()
	s.classification = nil
	s.mu.Unlock()

	resp, err := s.paths.GetPaths(ctx, routing.PathRequest{
		Source:          source,
		Destination:     destination,
		MaxAlternatives: s.maxAlternatives,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug().
			Uint64("generation", generation).
			Uint64("current", s.generation).
			Msg("discarding superseded path response")
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, err
	}

	classification, err := Classify(resp.Paths)
	if err != nil {
		return nil, err
	}

	s.classification = classification

	s.logger.Debug().
		Float64("shortest_km", classification.Options[0].DistanceKm).
		Float64("longest_km", classification.Options[2].DistanceKm).
		Msg("classified route options")

	return classification, nil
}

// Classification returns the current classification, if any.
func (s *Session) Classification() (*Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classification == nil {
		return nil, false
	}
	return s.classification, true
}

// Select marks a route option as the active choice.
func (s *Session) Select(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.classification == nil {
		return ErrNoSelection
	}
	if _, ok := s.classification.Option(optionID); !ok {
		return ErrUnknownOption
	}
	s.classification.SelectedID = optionID
	return nil
}

// Selected returns the currently selected route option.
func (s *Session) Selected() (RouteOption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.classification == nil {
		return RouteOption{}, false
	}
	return s.classification.Option(s.classification.SelectedID)
}

// StartSimulation runs a simulated traversal of the selected option,
// emitting a state per tick until arrival or until the session is stopped
// or replaced. Blocks for the duration of the run; callers drive it from
// their own goroutine. Returns the final state.
func (s *Session) StartSimulation(ctx context.Context, emit func(TraversalState)) (TraversalState, error) {
	s.mu.Lock()
	if s.classification == nil {
		s.mu.Unlock()
		return TraversalState{}, ErrNoSelection
	}
	option, ok := s.classification.Option(s.classification.SelectedID)
	if !ok {
		s.mu.Unlock()
		return TraversalState{}, ErrNoSelection
	}

	simulator, err := NewSimulator(option.Polyline, s.progressDelta)
	if err != nil {
		s.mu.Unlock()
		return TraversalState{}, err
	}

	s.stopSimulationLocked()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRun = cancel
	interval := s.tickInterval
	s.mu.Unlock()

	defer cancel()
	final := simulator.Run(runCtx, interval, emit)
	return final, nil
}

// StopSimulation cancels a running simulation, if any. The last emitted
// state remains valid for display.
func (s *Session) StopSimulation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSimulationLocked()
}

func (s *Session) stopSimulationLocked() {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}
