package navigation

import (
	"math"

	"github.com/wayguard/wayguard/internal/geo"
)

// DefaultMinDisplacementMeters is the minimum great-circle displacement
// between two position reports before a bearing is derived from movement.
// GPS noise at near-zero speed produces jittery bearings below this.
const DefaultMinDisplacementMeters = 2.0

// HeadingSource identifies where a heading sample came from. Selection
// priority is GPS > movement > orientation.
type HeadingSource string

const (
	SourceGPS         HeadingSource = "gps"
	SourceMovement    HeadingSource = "movement"
	SourceOrientation HeadingSource = "orientation"
)

// HeadingSample is a derived compass heading in [0, 360) degrees.
type HeadingSample struct {
	HeadingDegrees float64
	Source         HeadingSource
}

// PositionReport is one raw report from the device geolocation stream.
type PositionReport struct {
	Coordinate geo.Coordinate
	// Heading is the device-reported heading in degrees, when the sensor
	// provides one.
	Heading *float64
	// AccuracyMeters is the reported horizontal accuracy, when available.
	AccuracyMeters *float64
}

// HeadingTracker derives heading samples from successive device positions
// when the device does not report heading directly. It retains only the
// anchor coordinate needed for the next bearing computation.
type HeadingTracker struct {
	minDisplacement float64
	anchor          *geo.Coordinate
	hasMotionFix    bool
}

// NewHeadingTracker creates a tracker. Non-positive minDisplacementMeters
// selects the default threshold.
func NewHeadingTracker(minDisplacementMeters float64) *HeadingTracker {
	if minDisplacementMeters <= 0 {
		minDisplacementMeters = DefaultMinDisplacementMeters
	}
	return &HeadingTracker{minDisplacement: minDisplacementMeters}
}

// Update consumes a position report and returns a heading sample when one
// can be derived. A direct device heading is emitted unchanged. Otherwise a
// bearing is computed from the previous anchor coordinate, but only once the
// displacement exceeds the jitter threshold; below it nothing is emitted and
// the caller keeps its previous sample. The anchor only moves when a sample
// is produced, so sub-threshold movement accumulates.
func (t *HeadingTracker) Update(report PositionReport) (HeadingSample, bool) {
	coord := report.Coordinate

	if report.Heading != nil {
		t.anchor = &coord
		t.hasMotionFix = true
		return HeadingSample{
			HeadingDegrees: normalizeDegrees(*report.Heading),
			Source:         SourceGPS,
		}, true
	}

	if t.anchor == nil {
		t.anchor = &coord
		return HeadingSample{}, false
	}

	if geo.Distance(*t.anchor, coord) < t.minDisplacement {
		return HeadingSample{}, false
	}

	bearing := geo.Bearing(*t.anchor, coord)
	t.anchor = &coord
	t.hasMotionFix = true

	return HeadingSample{
		HeadingDegrees: bearing,
		Source:         SourceMovement,
	}, true
}

// Orientation consumes a device-orientation reading. It is only used as a
// fallback before any GPS or movement heading exists. A compass reading is
// taken as-is; a rotation angle alpha is converted with 360-alpha.
func (t *HeadingTracker) Orientation(value float64, isCompassHeading bool) (HeadingSample, bool) {
	if t.hasMotionFix {
		return HeadingSample{}, false
	}

	heading := value
	if !isCompassHeading {
		heading = 360 - value
	}

	return HeadingSample{
		HeadingDegrees: normalizeDegrees(heading),
		Source:         SourceOrientation,
	}, true
}

// Reset clears the tracker state for a new trip.
func (t *HeadingTracker) Reset() {
	t.anchor = nil
	t.hasMotionFix = false
}

// normalizeDegrees maps any angle to [0, 360).
func normalizeDegrees(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}
