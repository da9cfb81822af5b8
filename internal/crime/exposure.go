package crime

import (
	"math"
	"sort"

	"github.com/wayguard/wayguard/internal/geo"
)

// Confidence represents the confidence level of an exposure estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// ExposureConfig holds configuration for route exposure scoring.
type ExposureConfig struct {
	// SampleIntervalMeters is the spacing of probe points along the route.
	// Default: 200.
	SampleIntervalMeters float64

	// MaxDistance is the maximum distance (in meters) to consider incidents
	// from a probe point. Default: 1000.
	MaxDistance float64

	// MaxIncidents is the maximum number of nearest incidents per probe.
	// Default: 8.
	MaxIncidents int

	// Power is the power parameter for inverse distance weighting.
	// Higher values give more weight to closer incidents. Default: 2.0.
	Power float64

	// HighConfidenceMaxDistance is the max nearest-incident distance for
	// HIGH confidence. Default: 150.
	HighConfidenceMaxDistance float64

	// MediumConfidenceMaxDistance is the max nearest-incident distance for
	// MEDIUM confidence. Default: 500.
	MediumConfidenceMaxDistance float64
}

// DefaultExposureConfig returns the default configuration.
func DefaultExposureConfig() ExposureConfig {
	return ExposureConfig{
		SampleIntervalMeters:        200,
		MaxDistance:                 1000,
		MaxIncidents:                8,
		Power:                       2.0,
		HighConfidenceMaxDistance:   150,
		MediumConfidenceMaxDistance: 500,
	}
}

// Exposure is the estimated crime exposure of a route.
type Exposure struct {
	// Score is the mean interpolated intensity over probe points, in [0, 1].
	Score float64

	// Category derived from Score via CategoryFor.
	Category Category

	// Confidence indicates the data quality.
	Confidence Confidence

	// SamplesScored is the number of probe points with at least one incident
	// in range.
	SamplesScored int

	// SamplesTotal is the total number of probe points along the route.
	SamplesTotal int

	// NearestIncidentMeters is the smallest probe-to-incident distance seen.
	NearestIncidentMeters float64
}

// incidentDistance pairs an incident with its distance from a probe point.
type incidentDistance struct {
	point    *Point
	distance float64
}

// Scorer estimates route crime exposure by inverse distance weighting of
// incident intensities at probe points sampled along the polyline.
type Scorer struct {
	config ExposureConfig
}

// NewScorer creates a new Scorer with the given configuration.
func NewScorer(config ExposureConfig) *Scorer {
	defaults := DefaultExposureConfig()
	if config.SampleIntervalMeters <= 0 {
		config.SampleIntervalMeters = defaults.SampleIntervalMeters
	}
	if config.MaxDistance <= 0 {
		config.MaxDistance = defaults.MaxDistance
	}
	if config.MaxIncidents <= 0 {
		config.MaxIncidents = defaults.MaxIncidents
	}
	if config.Power <= 0 {
		config.Power = defaults.Power
	}
	if config.HighConfidenceMaxDistance <= 0 {
		config.HighConfidenceMaxDistance = defaults.HighConfidenceMaxDistance
	}
	if config.MediumConfidenceMaxDistance <= 0 {
		config.MediumConfidenceMaxDistance = defaults.MediumConfidenceMaxDistance
	}
	return &Scorer{config: config}
}

// Score estimates the exposure of a route against a year's incidents.
// Routes entirely out of range of every incident score zero with LOW
// confidence rather than erroring; absence of data is a safe-looking route,
// and the confidence level carries the caveat.
func (s *Scorer) Score(polyline []geo.Coordinate, incidents []*Point) (*Exposure, error) {
	if len(polyline) < 2 {
		return nil, ErrInvalidReport
	}

	probes := geo.Sample(polyline, s.config.SampleIntervalMeters)

	result := &Exposure{
		SamplesTotal:          len(probes),
		NearestIncidentMeters: math.Inf(1),
	}

	var total float64
	for _, probe := range probes {
		value, nearest, ok := s.scoreProbe(probe, incidents)
		if !ok {
			continue
		}
		total += value
		result.SamplesScored++
		if nearest < result.NearestIncidentMeters {
			result.NearestIncidentMeters = nearest
		}
	}

	if result.SamplesScored == 0 {
		result.NearestIncidentMeters = 0
		result.Category = CategoryFor(0)
		result.Confidence = ConfidenceLow
		return result, nil
	}

	// Probes with no incidents in range contribute zero intensity.
	result.Score = total / float64(result.SamplesTotal)
	result.Category = CategoryFor(result.Score)
	result.Confidence = s.calculateConfidence(result.NearestIncidentMeters, result.SamplesScored)

	return result, nil
}

// scoreProbe performs IDW interpolation of incident intensity at one probe.
func (s *Scorer) scoreProbe(probe geo.Coordinate, incidents []*Point) (value, nearest float64, ok bool) {
	var inRange []incidentDistance
	for _, incident := range incidents {
		dist := geo.Distance(probe, incident.Coordinate)
		if dist <= s.config.MaxDistance {
			inRange = append(inRange, incidentDistance{point: incident, distance: dist})
		}
	}

	if len(inRange) == 0 {
		return 0, 0, false
	}

	sort.Slice(inRange, func(a, b int) bool {
		return inRange[a].distance < inRange[b].distance
	})
	if len(inRange) > s.config.MaxIncidents {
		inRange = inRange[:s.config.MaxIncidents]
	}

	var weighted, totalWeight float64
	for _, id := range inRange {
		var weight float64
		if id.distance < 1 {
			// On top of an incident - dominate the average.
			weight = 1e10
		} else {
			weight = 1.0 / math.Pow(id.distance, s.config.Power)
		}
		weighted += id.point.Intensity * weight
		totalWeight += weight
	}

	return weighted / totalWeight, inRange[0].distance, true
}

// calculateConfidence determines confidence from nearest distance and the
// number of scored probes.
func (s *Scorer) calculateConfidence(nearestDistance float64, samplesScored int) Confidence {
	if nearestDistance <= s.config.HighConfidenceMaxDistance && samplesScored >= 2 {
		return ConfidenceHigh
	}
	if nearestDistance <= s.config.MediumConfidenceMaxDistance {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
