package models

// PlanRouteRequest is the request body for planning a trip.
// Origin and destination may each be given as a coordinate or as a free-text
// query to geocode; a coordinate wins when both are present.
type PlanRouteRequest struct {
	Origin           *Point  `json:"origin,omitempty"`
	OriginQuery      *string `json:"originQuery,omitempty"`
	Destination      *Point  `json:"destination,omitempty"`
	DestinationQuery *string `json:"destinationQuery,omitempty"`

	// Year selects the crime dataset used for exposure scoring.
	// Defaults to the current year.
	Year *int `json:"year,omitempty"`
}

// PlanRouteResponse is the response for route planning. Options always holds
// exactly three labeled routes, shortest first, with the shortest selected.
type PlanRouteResponse struct {
	GeneratedAt Timestamp          `json:"generatedAt"`
	Provider    string             `json:"provider"`
	Origin      ResolvedPlace      `json:"origin"`
	Destination ResolvedPlace      `json:"destination"`
	Options     []RouteOptionModel `json:"options"`
	SelectedID  string             `json:"selectedId"`
	Warnings    []Warning          `json:"warnings,omitempty"`
}

// ResolvedPlace is an endpoint after geocoding.
type ResolvedPlace struct {
	DisplayName string `json:"displayName,omitempty"`
	Point       Point  `json:"point"`
}

// RouteOptionModel is one classified route alternative.
type RouteOptionModel struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Rank        string         `json:"rank"`
	DistanceKm  float64        `json:"distanceKm"`
	DurationMin float64        `json:"durationMin"`
	Polyline    []Point        `json:"polyline"`
	Exposure    *ExposureModel `json:"exposure,omitempty"`
}

// ExposureModel is the crime exposure estimate for one route option.
type ExposureModel struct {
	Score                 float64 `json:"score"`
	Category              string  `json:"category"`
	Confidence            string  `json:"confidence"`
	SamplesScored         int     `json:"samplesScored"`
	SamplesTotal          int     `json:"samplesTotal"`
	NearestIncidentMeters float64 `json:"nearestIncidentMeters"`
}

// GeocodeResponse is the response for a place search.
type GeocodeResponse struct {
	Query  string       `json:"query"`
	Places []PlaceModel `json:"places"`
}

// PlaceModel is one geocoding result.
type PlaceModel struct {
	DisplayName string `json:"displayName"`
	Point       Point  `json:"point"`
}
