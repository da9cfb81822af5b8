package navigation

import (
	"context"
	"math"
	"time"

	"github.com/wayguard/wayguard/internal/geo"
)

// Simulation defaults. With the default increment a full traversal takes
// 500 ticks, i.e. 25 seconds of wall-clock time at the default cadence.
const (
	DefaultTickInterval  = 50 * time.Millisecond
	DefaultProgressDelta = 0.002
)

// Zone status messages, selected by progress band. The simulation is a
// time-driven visualization, not a ground-truth tracker; the zone texts give
// the user a sense of where along the route they would be.
const (
	statusSafeZone     = "Safe zone, keep moving"
	statusIntersection = "Approaching intersection, stay cautious"
	statusModerateRisk = "Moderate risk area, stay alert"
	statusSurveillance = "High surveillance zone, route verified"
	statusNearArrival  = "Approaching destination"
	statusArrived      = "You have arrived at your destination"
)

// StatusText returns the zone message for a progress value in [0, 1].
func StatusText(progress float64) string {
	switch {
	case progress >= 1:
		return statusArrived
	case progress >= 0.8:
		return statusNearArrival
	case progress >= 0.6:
		return statusSurveillance
	case progress >= 0.4:
		return statusModerateRisk
	case progress >= 0.2:
		return statusIntersection
	default:
		return statusSafeZone
	}
}

// Simulator animates a traversal of a fixed polyline. Each tick advances
// progress by a fixed increment and interpolates the position within the
// current segment. The tick itself is pure; scheduling lives in Run.
type Simulator struct {
	polyline []geo.Coordinate
	delta    float64
}

// NewSimulator creates a simulator for the given polyline and per-tick
// progress increment. A polyline with fewer than two points is a caller bug,
// not a recoverable runtime condition, and is rejected up front.
func NewSimulator(polyline []geo.Coordinate, delta float64) (*Simulator, error) {
	if len(polyline) < 2 {
		return nil, ErrShortPolyline
	}
	if delta <= 0 || delta > 1 {
		return nil, ErrInvalidDelta
	}
	return &Simulator{polyline: polyline, delta: delta}, nil
}

// Start returns the initial state at progress zero.
func (s *Simulator) Start() TraversalState {
	return TraversalState{
		Progress:   0,
		Position:   s.polyline[0],
		Heading:    geo.Bearing(s.polyline[0], s.polyline[1]),
		StatusText: StatusText(0),
		Arrived:    false,
	}
}

// Tick advances the state by one increment. Progress is monotone and capped
// at 1; once arrived the state is returned unchanged, so extra ticks are
// idempotent. The position always lies on the polyline, never extrapolated
// past either endpoint.
func (s *Simulator) Tick(state TraversalState) TraversalState {
	if state.Progress >= 1 {
		return s.terminalState()
	}

	newP := math.Min(state.Progress+s.delta, 1)

	segments := len(s.polyline) - 1
	exact := newP * float64(segments)

	pointIndex := int(math.Floor(exact))
	if pointIndex < 0 {
		pointIndex = 0
	}
	if pointIndex > segments {
		pointIndex = segments
	}
	nextIndex := pointIndex + 1
	if nextIndex > segments {
		nextIndex = segments
	}

	segmentProgress := exact - float64(pointIndex)
	position := geo.Lerp(s.polyline[pointIndex], s.polyline[nextIndex], segmentProgress)

	heading := state.Heading
	if pointIndex != nextIndex {
		heading = geo.Bearing(s.polyline[pointIndex], s.polyline[nextIndex])
	}

	return TraversalState{
		Progress:   newP,
		Position:   position,
		Heading:    heading,
		StatusText: StatusText(newP),
		Arrived:    newP >= 1,
	}
}

func (s *Simulator) terminalState() TraversalState {
	last := len(s.polyline) - 1
	return TraversalState{
		Progress:   1,
		Position:   s.polyline[last],
		Heading:    geo.Bearing(s.polyline[last-1], s.polyline[last]),
		StatusText: statusArrived,
		Arrived:    true,
	}
}

// Run drives the simulation on a fixed ticker, calling emit after every
// tick, until arrival or context cancellation. The last emitted state stays
// valid for display when the run is cancelled mid-way. Returns the final
// state.
func (s *Simulator) Run(ctx context.Context, interval time.Duration, emit func(TraversalState)) TraversalState {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	state := s.Start()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return state
		case <-ticker.C:
			state = s.Tick(state)
			if emit != nil {
				emit(state)
			}
			if state.Arrived {
				return state
			}
		}
	}
}

// Trace computes the full tick sequence without a scheduler: every state
// from the first tick through arrival. Useful for tests and for clients that
// animate the frames themselves.
func (s *Simulator) Trace() []TraversalState {
	maxTicks := int(math.Ceil(1/s.delta)) + 1
	states := make([]TraversalState, 0, maxTicks)

	state := s.Start()
	for !state.Arrived {
		state = s.Tick(state)
		states = append(states, state)
	}
	return states
}
