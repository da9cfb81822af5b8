// Package crime manages the year-partitioned crime intensity dataset and
// route exposure scoring.
package crime

import (
	"errors"
	"time"

	"github.com/wayguard/wayguard/internal/geo"
)

// Sentinel errors for crime data operations.
var (
	ErrYearNotFound       = errors.New("no crime data for year")
	ErrInvalidYear        = errors.New("invalid year")
	ErrInvalidIntensity   = errors.New("intensity must be in [0, 1]")
	ErrInvalidReport      = errors.New("invalid crime report")
	ErrNoIncidentsInRange = errors.New("no incidents within range")
)

// Category buckets incident intensity for display.
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

// Intensity thresholds for category derivation.
const (
	mediumThreshold = 0.4
	highThreshold   = 0.7
)

// CategoryFor derives the display category from an intensity value.
func CategoryFor(intensity float64) Category {
	switch {
	case intensity >= highThreshold:
		return CategoryHigh
	case intensity >= mediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// Point is a single incident in the dataset.
type Point struct {
	// ID is the unique incident identifier.
	ID string

	// Year partitions the dataset.
	Year int

	// Coordinate is the incident location.
	Coordinate geo.Coordinate

	// Intensity is the normalized severity in [0, 1].
	Intensity float64

	// Category is derived from Intensity via CategoryFor.
	Category Category

	// Description is an optional free-text note.
	Description string

	// OccurredAt is when the incident happened.
	OccurredAt time.Time
}

// Validate checks the point's fields.
func (p *Point) Validate() error {
	if p.Year < 1900 || p.Year > 2200 {
		return ErrInvalidYear
	}
	if !p.Coordinate.Valid() {
		return ErrInvalidReport
	}
	if p.Intensity < 0 || p.Intensity > 1 {
		return ErrInvalidIntensity
	}
	return nil
}

// Report is a user-submitted complaint about an unsafe location. Accepted
// reports become dataset points for the current year after review.
type Report struct {
	// ID is the unique report identifier.
	ID string

	// Username of the reporter.
	Username string

	// Coordinate is the reported location.
	Coordinate geo.Coordinate

	// Description of the incident.
	Description string

	// Category as assessed by the reporter.
	Category Category

	// CreatedAt is the submission time.
	CreatedAt time.Time
}

// Validate checks the report's fields.
func (r *Report) Validate() error {
	if !r.Coordinate.Valid() {
		return ErrInvalidReport
	}
	if r.Description == "" {
		return ErrInvalidReport
	}
	switch r.Category {
	case CategoryLow, CategoryMedium, CategoryHigh:
	default:
		return ErrInvalidReport
	}
	return nil
}
