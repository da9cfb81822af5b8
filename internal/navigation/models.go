// Package navigation implements the route classification and live-navigation
// simulation engine: reducing raw candidate paths to three labeled options,
// animating a traversal of a chosen path, and deriving headings from device
// position reports.
package navigation

import (
	"errors"

	"github.com/wayguard/wayguard/internal/geo"
)

// Sentinel errors for navigation operations.
var (
	// ErrNoCandidates indicates classification was attempted with no candidate paths.
	ErrNoCandidates = errors.New("no candidate paths to classify")
	// ErrShortPolyline indicates a polyline with fewer than two points.
	ErrShortPolyline = errors.New("polyline must have at least two points")
	// ErrInvalidDelta indicates a non-positive or too-large progress increment.
	ErrInvalidDelta = errors.New("progress increment must be in (0, 1]")
	// ErrUnknownOption indicates a selection for an option id not in the current classification.
	ErrUnknownOption = errors.New("unknown route option")
	// ErrNoSelection indicates simulation was requested before a route was classified and selected.
	ErrNoSelection = errors.New("no route option selected")
	// ErrSuperseded indicates a path request was replaced by a newer one before completing.
	ErrSuperseded = errors.New("request superseded by a newer one")
)

// RankClass identifies an option's distance rank.
type RankClass string

const (
	RankShortest RankClass = "shortest"
	RankMedial   RankClass = "medial"
	RankLongest  RankClass = "longest"
)

// Display labels shown to the user for each rank. The three labels are always
// present in a classification result, regardless of candidate count.
const (
	LabelShortest = "Shortest Way"
	LabelMedial   = "Medial Way"
	LabelLongest  = "Longest Root"
)

// Label returns the user-facing label for the rank.
func (r RankClass) Label() string {
	switch r {
	case RankMedial:
		return LabelMedial
	case RankLongest:
		return LabelLongest
	default:
		return LabelShortest
	}
}

// RouteOption is one of exactly three classified, labeled routes offered to
// the user. Options may share identical geometry when the provider returned
// fewer than three distinct candidates.
type RouteOption struct {
	ID          string
	Label       string
	Rank        RankClass
	DistanceKm  float64
	DurationMin float64
	Polyline    []geo.Coordinate
}

// Classification is the result of classifying one set of candidate paths.
// Replaced wholesale on each new request.
type Classification struct {
	Options    []RouteOption // always exactly 3
	SelectedID string        // the shortest option, selected by default
}

// Option returns the option with the given id.
func (c *Classification) Option(id string) (RouteOption, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return RouteOption{}, false
}

// TraversalState is one frame of a simulated traversal. Terminal once
// Progress reaches 1.
type TraversalState struct {
	Progress   float64
	Position   geo.Coordinate
	Heading    float64 // bearing of the current segment, degrees
	StatusText string
	Arrived    bool
}
