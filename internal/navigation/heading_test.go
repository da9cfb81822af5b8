package navigation_test

import (
	"math"
	"testing"

	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/navigation"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestHeadingTracker_DirectHeadingWins(t *testing.T) {
	tracker := navigation.NewHeadingTracker(0)

	sample, ok := tracker.Update(navigation.PositionReport{
		Coordinate: geo.Coordinate{Lat: 12.97, Lon: 77.59},
		Heading:    floatPtr(42.5),
	})
	if !ok {
		t.Fatal("expected sample from direct heading")
	}
	if sample.HeadingDegrees != 42.5 {
		t.Errorf("expected 42.5, got %v", sample.HeadingDegrees)
	}
	if sample.Source != navigation.SourceGPS {
		t.Errorf("expected gps source, got %q", sample.Source)
	}
}

func TestHeadingTracker_BearingFromMovement(t *testing.T) {
	tests := []struct {
		name     string
		from     geo.Coordinate
		to       geo.Coordinate
		expected float64
	}{
		{name: "due east", from: geo.Coordinate{Lat: 0, Lon: 0}, to: geo.Coordinate{Lat: 0, Lon: 1}, expected: 90},
		{name: "due north", from: geo.Coordinate{Lat: 0, Lon: 0}, to: geo.Coordinate{Lat: 1, Lon: 0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := navigation.NewHeadingTracker(0)

			if _, ok := tracker.Update(navigation.PositionReport{Coordinate: tt.from}); ok {
				t.Fatal("first report should not yield a sample")
			}

			sample, ok := tracker.Update(navigation.PositionReport{Coordinate: tt.to})
			if !ok {
				t.Fatal("expected movement-derived sample")
			}
			if math.Abs(sample.HeadingDegrees-tt.expected) > 0.01 {
				t.Errorf("expected %v degrees, got %v", tt.expected, sample.HeadingDegrees)
			}
			if sample.Source != navigation.SourceMovement {
				t.Errorf("expected movement source, got %q", sample.Source)
			}
		})
	}
}

func TestHeadingTracker_JitterSuppressed(t *testing.T) {
	tracker := navigation.NewHeadingTracker(5)

	base := geo.Coordinate{Lat: 12.9716, Lon: 77.5946}
	if _, ok := tracker.Update(navigation.PositionReport{Coordinate: base}); ok {
		t.Fatal("first report should not yield a sample")
	}

	// ~1m east: below the 5m threshold, no update.
	nearby := geo.Coordinate{Lat: base.Lat, Lon: base.Lon + 0.00001}
	if _, ok := tracker.Update(navigation.PositionReport{Coordinate: nearby}); ok {
		t.Error("expected no sample below displacement threshold")
	}

	// Sub-threshold movement accumulates against the original anchor.
	far := geo.Coordinate{Lat: base.Lat, Lon: base.Lon + 0.0001}
	sample, ok := tracker.Update(navigation.PositionReport{Coordinate: far})
	if !ok {
		t.Fatal("expected sample once accumulated displacement exceeds threshold")
	}
	if math.Abs(sample.HeadingDegrees-90) > 1 {
		t.Errorf("expected ~90 degrees, got %v", sample.HeadingDegrees)
	}
}

func TestHeadingTracker_OrientationFallback(t *testing.T) {
	tracker := navigation.NewHeadingTracker(0)

	// Rotation angle alpha converts via 360-alpha.
	sample, ok := tracker.Orientation(90, false)
	if !ok {
		t.Fatal("expected orientation sample before any motion fix")
	}
	if sample.HeadingDegrees != 270 {
		t.Errorf("expected 270 for alpha 90, got %v", sample.HeadingDegrees)
	}
	if sample.Source != navigation.SourceOrientation {
		t.Errorf("expected orientation source, got %q", sample.Source)
	}

	// A compass heading is taken as-is.
	sample, ok = tracker.Orientation(135, true)
	if !ok {
		t.Fatal("expected compass sample")
	}
	if sample.HeadingDegrees != 135 {
		t.Errorf("expected 135, got %v", sample.HeadingDegrees)
	}
}

func TestHeadingTracker_OrientationIgnoredAfterMotionFix(t *testing.T) {
	tracker := navigation.NewHeadingTracker(0)

	if _, ok := tracker.Update(navigation.PositionReport{
		Coordinate: geo.Coordinate{Lat: 0, Lon: 0},
		Heading:    floatPtr(10),
	}); !ok {
		t.Fatal("expected gps sample")
	}

	if _, ok := tracker.Orientation(45, true); ok {
		t.Error("orientation must not override an existing gps/movement heading")
	}
}

func TestHeadingTracker_NormalizesRange(t *testing.T) {
	tracker := navigation.NewHeadingTracker(0)

	sample, ok := tracker.Update(navigation.PositionReport{
		Coordinate: geo.Coordinate{Lat: 0, Lon: 0},
		Heading:    floatPtr(-45),
	})
	if !ok {
		t.Fatal("expected sample")
	}
	if sample.HeadingDegrees != 315 {
		t.Errorf("expected -45 normalized to 315, got %v", sample.HeadingDegrees)
	}

	sample, ok = tracker.Update(navigation.PositionReport{
		Coordinate: geo.Coordinate{Lat: 0, Lon: 0},
		Heading:    floatPtr(725),
	})
	if !ok {
		t.Fatal("expected sample")
	}
	if math.Abs(sample.HeadingDegrees-5) > 1e-9 {
		t.Errorf("expected 725 normalized to 5, got %v", sample.HeadingDegrees)
	}
}

func TestHeadingTracker_Reset(t *testing.T) {
	tracker := navigation.NewHeadingTracker(0)

	tracker.Update(navigation.PositionReport{Coordinate: geo.Coordinate{Lat: 0, Lon: 0}})
	tracker.Update(navigation.PositionReport{Coordinate: geo.Coordinate{Lat: 1, Lon: 0}})
	tracker.Reset()

	if _, ok := tracker.Orientation(30, true); !ok {
		t.Error("expected orientation accepted again after reset")
	}
	if _, ok := tracker.Update(navigation.PositionReport{Coordinate: geo.Coordinate{Lat: 2, Lon: 0}}); ok {
		t.Error("expected no movement sample directly after reset")
	}
}
