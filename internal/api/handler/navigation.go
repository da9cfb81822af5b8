package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayguard/wayguard/internal/api/models"
	"github.com/wayguard/wayguard/internal/api/response"
	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/navigation"
)

// minSimulationDelta bounds the trace length: 0.001 yields at most 1000 frames.
const minSimulationDelta = 0.001

// NavigationHandler handles traversal simulation and heading endpoints.
type NavigationHandler struct{}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Simulate handles POST /v1/navigation/simulate - compute the full tick
// trace for a polyline, from the first tick through arrival.
func (h *NavigationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var input models.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	delta := navigation.DefaultProgressDelta
	if input.ProgressDelta != nil {
		delta = *input.ProgressDelta
	}
	if delta < minSimulationDelta || delta > 1 {
		response.BadRequest(w, r, "progressDelta must be in [0.001, 1]", []models.FieldError{
			{Field: "progressDelta", Message: "must be between 0.001 and 1"},
		})
		return
	}

	polyline := make([]geo.Coordinate, 0, len(input.Polyline))
	for _, p := range input.Polyline {
		coord := geo.Coordinate{Lat: p.Lat, Lon: p.Lon}
		if !coord.Valid() {
			response.BadRequest(w, r, "polyline contains an invalid coordinate", nil)
			return
		}
		polyline = append(polyline, coord)
	}

	simulator, err := navigation.NewSimulator(polyline, delta)
	if err != nil {
		if errors.Is(err, navigation.ErrShortPolyline) {
			response.BadRequest(w, r, "polyline must have at least two points", nil)
			return
		}
		response.BadRequest(w, r, "invalid simulation parameters", nil)
		return
	}

	states := simulator.Trace()
	out := models.SimulateResponse{Frames: make([]models.TraversalFrame, 0, len(states))}
	for _, state := range states {
		out.Frames = append(out.Frames, models.TraversalFrame{
			Progress:       state.Progress,
			Position:       models.Point{Lat: state.Position.Lat, Lon: state.Position.Lon},
			HeadingDegrees: state.Heading,
			StatusText:     state.StatusText,
			Arrived:        state.Arrived,
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

// Heading handles POST /v1/navigation/heading - derive a heading sample from
// device position reports. GPS heading wins over movement bearing, which wins
// over device orientation.
func (h *NavigationHandler) Heading(w http.ResponseWriter, r *http.Request) {
	var input models.HeadingRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	current := geo.Coordinate{Lat: input.Current.Lat, Lon: input.Current.Lon}
	if !current.Valid() {
		response.BadRequest(w, r, "current position is invalid", nil)
		return
	}

	tracker := navigation.NewHeadingTracker(0)

	if input.Previous != nil {
		previous := geo.Coordinate{Lat: input.Previous.Lat, Lon: input.Previous.Lon}
		if !previous.Valid() {
			response.BadRequest(w, r, "previous position is invalid", nil)
			return
		}
		tracker.Update(navigation.PositionReport{Coordinate: previous})
	}

	sample, ok := tracker.Update(navigation.PositionReport{
		Coordinate: current,
		Heading:    input.ReportedHeading,
	})

	if !ok && input.Orientation != nil {
		sample, ok = tracker.Orientation(input.Orientation.Value, input.Orientation.IsCompassHeading)
	}

	out := models.HeadingResponse{Derived: ok}
	if ok {
		out.HeadingDegrees = sample.HeadingDegrees
		out.Source = string(sample.Source)
	}

	response.JSON(w, r, http.StatusOK, out)
}
