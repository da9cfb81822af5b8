package geo

import (
	"math"
	"testing"
)

func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func TestDecodePolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Coordinate
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodePolyline(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}

			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecodePolyline_EmptyString(t *testing.T) {
	if result := DecodePolyline(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	coords := []Coordinate{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 12.9352, Lon: 77.6245},
		{Lat: 12.9141, Lon: 77.6411},
	}

	encoded := EncodePolyline(coords)
	if encoded == "" {
		t.Fatal("expected non-empty encoded string")
	}

	decoded := DecodePolyline(encoded)
	if len(decoded) != len(coords) {
		t.Fatalf("round-trip: expected %d coordinates, got %d", len(coords), len(decoded))
	}

	for i, coord := range decoded {
		if !coordsEqual(coord, coords[i], 0.00001) {
			t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, coords[i], coord)
		}
	}
}

func TestDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2km.
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 1, Lon: 0}

	d := Distance(a, b)
	if math.Abs(d-111195) > 200 {
		t.Errorf("expected ~111195m, got %.0f", d)
	}

	if Distance(a, a) != 0 {
		t.Error("expected zero distance for identical points")
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		from     Coordinate
		to       Coordinate
		expected float64
	}{
		{name: "due north", from: Coordinate{0, 0}, to: Coordinate{1, 0}, expected: 0},
		{name: "due east", from: Coordinate{0, 0}, to: Coordinate{0, 1}, expected: 90},
		{name: "due south", from: Coordinate{1, 0}, to: Coordinate{0, 0}, expected: 180},
		{name: "due west", from: Coordinate{0, 1}, to: Coordinate{0, 0}, expected: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.from, tt.to)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("expected %.2f degrees, got %.2f", tt.expected, got)
			}
		})
	}
}

func TestBearing_Range(t *testing.T) {
	points := []Coordinate{
		{Lat: 12.97, Lon: 77.59},
		{Lat: 12.93, Lon: 77.62},
		{Lat: 13.01, Lon: 77.55},
		{Lat: 12.97, Lon: 77.60},
	}

	for i := 1; i < len(points); i++ {
		b := Bearing(points[i-1], points[i])
		if b < 0 || b >= 360 {
			t.Errorf("bearing %.4f out of [0, 360)", b)
		}
	}
}

func TestLerp(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 10, Lon: 20}

	mid := Lerp(a, b, 0.5)
	if !coordsEqual(mid, Coordinate{Lat: 5, Lon: 10}, 1e-9) {
		t.Errorf("expected midpoint (5, 10), got %+v", mid)
	}

	if Lerp(a, b, -1) != a {
		t.Error("expected clamp to start point")
	}
	if Lerp(a, b, 2) != b {
		t.Error("expected clamp to end point")
	}
}

func TestPathLength(t *testing.T) {
	if PathLength([]Coordinate{{Lat: 1, Lon: 1}}) != 0 {
		t.Error("expected zero length for single point")
	}

	coords := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 1, Lon: 0},
		{Lat: 2, Lon: 0},
	}
	total := PathLength(coords)
	if math.Abs(total-2*111195) > 400 {
		t.Errorf("expected ~222390m, got %.0f", total)
	}
}

func TestSample(t *testing.T) {
	coords := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0.01, Lon: 0}, // ~1112m
	}

	sampled := Sample(coords, 300)
	if len(sampled) < 4 {
		t.Fatalf("expected at least 4 sample points, got %d", len(sampled))
	}

	if sampled[0] != coords[0] {
		t.Error("expected first point preserved")
	}
	if sampled[len(sampled)-1] != coords[1] {
		t.Error("expected last point preserved")
	}

	// All but the final remainder step are evenly spaced.
	for i := 1; i < len(sampled)-1; i++ {
		step := Distance(sampled[i-1], sampled[i])
		if math.Abs(step-300) > 5 {
			t.Errorf("step %d: expected ~300m spacing, got %.0f", i, step)
		}
	}
}

func TestSample_ZeroInterval(t *testing.T) {
	coords := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	sampled := Sample(coords, 0)
	if len(sampled) != len(coords) {
		t.Errorf("expected passthrough for non-positive interval, got %d points", len(sampled))
	}
}

func TestCoordinate_Valid(t *testing.T) {
	valid := []Coordinate{{0, 0}, {90, 180}, {-90, -180}, {12.97, 77.59}}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("expected %+v to be valid", c)
		}
	}

	invalid := []Coordinate{
		{91, 0},
		{0, 181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, c := range invalid {
		if c.Valid() {
			t.Errorf("expected %+v to be invalid", c)
		}
	}
}
