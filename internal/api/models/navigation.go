package models

// SimulateRequest asks for the full tick trace of a traversal along a
// polyline, typically one returned by route planning.
type SimulateRequest struct {
	Polyline []Point `json:"polyline"`

	// ProgressDelta overrides the per-tick progress increment.
	// Defaults to the engine's standard increment.
	ProgressDelta *float64 `json:"progressDelta,omitempty"`
}

// SimulateResponse carries every frame from the first tick through arrival.
type SimulateResponse struct {
	Frames []TraversalFrame `json:"frames"`
}

// TraversalFrame is one tick of a simulated traversal.
type TraversalFrame struct {
	Progress       float64 `json:"progress"`
	Position       Point   `json:"position"`
	HeadingDegrees float64 `json:"headingDegrees"`
	StatusText     string  `json:"statusText"`
	Arrived        bool    `json:"arrived"`
}

// HeadingRequest derives a compass heading from device position reports.
// ReportedHeading wins when the device supplies one; otherwise a bearing is
// computed from the displacement between Previous and Current; orientation is
// the fallback before any motion fix exists.
type HeadingRequest struct {
	Current         Point             `json:"current"`
	Previous        *Point            `json:"previous,omitempty"`
	ReportedHeading *float64          `json:"reportedHeading,omitempty"`
	Orientation     *OrientationInput `json:"orientation,omitempty"`
}

// OrientationInput is a device-orientation reading.
type OrientationInput struct {
	Value            float64 `json:"value"`
	IsCompassHeading bool    `json:"isCompassHeading"`
}

// HeadingResponse is a derived heading sample. Derived is false when no
// heading could be produced, e.g. displacement below the jitter threshold.
type HeadingResponse struct {
	Derived        bool    `json:"derived"`
	HeadingDegrees float64 `json:"headingDegrees,omitempty"`
	Source         string  `json:"source,omitempty"`
}
