package navigation_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/navigation"
)

func TestNewSimulator_InvalidInput(t *testing.T) {
	if _, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 1, Lon: 1}}, 0.1); err != navigation.ErrShortPolyline {
		t.Errorf("expected ErrShortPolyline for single point, got %v", err)
	}
	if _, err := navigation.NewSimulator(nil, 0.1); err != navigation.ErrShortPolyline {
		t.Errorf("expected ErrShortPolyline for nil polyline, got %v", err)
	}

	line := []geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	if _, err := navigation.NewSimulator(line, 0); err != navigation.ErrInvalidDelta {
		t.Errorf("expected ErrInvalidDelta for zero delta, got %v", err)
	}
	if _, err := navigation.NewSimulator(line, -0.5); err != navigation.ErrInvalidDelta {
		t.Errorf("expected ErrInvalidDelta for negative delta, got %v", err)
	}
	if _, err := navigation.NewSimulator(line, 1.5); err != navigation.ErrInvalidDelta {
		t.Errorf("expected ErrInvalidDelta for delta above 1, got %v", err)
	}
}

func TestSimulator_TwoPointTraversal(t *testing.T) {
	sim, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 10, Lon: 0}}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := sim.Start()
	if state.Progress != 0 || state.Arrived {
		t.Fatalf("unexpected start state: %+v", state)
	}

	state = sim.Tick(state)
	if state.Progress != 0.5 {
		t.Errorf("tick 1: expected progress 0.5, got %v", state.Progress)
	}
	if math.Abs(state.Position.Lat-5) > 1e-9 || state.Position.Lon != 0 {
		t.Errorf("tick 1: expected position (5, 0), got %+v", state.Position)
	}
	if state.Arrived {
		t.Error("tick 1: should not be arrived")
	}

	state = sim.Tick(state)
	if state.Progress != 1.0 {
		t.Errorf("tick 2: expected progress 1.0, got %v", state.Progress)
	}
	if state.Position.Lat != 10 || state.Position.Lon != 0 {
		t.Errorf("tick 2: expected position (10, 0), got %+v", state.Position)
	}
	if !state.Arrived {
		t.Error("tick 2: expected arrival")
	}
}

func TestSimulator_ArrivalIdempotent(t *testing.T) {
	sim, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := sim.Start()
	for i := 0; i < 10; i++ {
		state = sim.Tick(state)
	}

	if state.Progress != 1 {
		t.Errorf("expected progress pinned at 1, got %v", state.Progress)
	}
	if !state.Arrived {
		t.Error("expected arrived to stay true")
	}
	if state.Position != (geo.Coordinate{Lat: 1, Lon: 0}) {
		t.Errorf("expected position pinned at endpoint, got %+v", state.Position)
	}
}

func TestSimulator_ProgressMonotoneAndBounded(t *testing.T) {
	polyline := []geo.Coordinate{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: 12.9650, Lon: 77.6000},
		{Lat: 12.9580, Lon: 77.6100},
		{Lat: 12.9500, Lon: 77.6200},
	}
	sim, err := navigation.NewSimulator(polyline, 0.07)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := sim.Start()
	for !prev.Arrived {
		next := sim.Tick(prev)

		if next.Progress < prev.Progress {
			t.Fatalf("progress decreased: %v -> %v", prev.Progress, next.Progress)
		}
		if next.Progress > 1 {
			t.Fatalf("progress exceeded 1: %v", next.Progress)
		}

		// Position stays within the polyline's bounding box; per-axis
		// interpolation between consecutive vertices cannot escape it.
		if next.Position.Lat > 12.9716 || next.Position.Lat < 12.9500 {
			t.Fatalf("latitude %v outside polyline bounds", next.Position.Lat)
		}
		if next.Position.Lon < 77.5946 || next.Position.Lon > 77.6200 {
			t.Fatalf("longitude %v outside polyline bounds", next.Position.Lon)
		}

		prev = next
	}
}

func TestSimulator_StatusTextBands(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{0.0, "Safe zone, keep moving"},
		{0.19, "Safe zone, keep moving"},
		{0.2, "Approaching intersection, stay cautious"},
		{0.39, "Approaching intersection, stay cautious"},
		{0.4, "Moderate risk area, stay alert"},
		{0.6, "High surveillance zone, route verified"},
		{0.8, "Approaching destination"},
		{0.99, "Approaching destination"},
		{1.0, "You have arrived at your destination"},
	}

	for _, tt := range tests {
		if got := navigation.StatusText(tt.progress); got != tt.want {
			t.Errorf("StatusText(%v) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestSimulator_HeadingFollowsSegment(t *testing.T) {
	// First segment heads due east, second due north.
	polyline := []geo.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.001},
	}
	sim, err := navigation.NewSimulator(polyline, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := sim.Start()
	if math.Abs(state.Heading-90) > 0.1 {
		t.Errorf("start heading: expected ~90, got %v", state.Heading)
	}

	state = sim.Tick(state) // progress 0.25, first segment
	if math.Abs(state.Heading-90) > 0.1 {
		t.Errorf("first segment heading: expected ~90, got %v", state.Heading)
	}

	state = sim.Tick(state) // progress 0.5, boundary
	state = sim.Tick(state) // progress 0.75, second segment
	if math.Abs(state.Heading-0) > 0.1 && math.Abs(state.Heading-360) > 0.1 {
		t.Errorf("second segment heading: expected ~0, got %v", state.Heading)
	}
}

func TestSimulator_Trace(t *testing.T) {
	sim, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trace := sim.Trace()
	if len(trace) != 4 {
		t.Fatalf("expected 4 states for delta 0.25, got %d", len(trace))
	}
	if !trace[len(trace)-1].Arrived {
		t.Error("expected final trace state arrived")
	}
	for i := 1; i < len(trace); i++ {
		if trace[i].Progress <= trace[i-1].Progress {
			t.Error("expected strictly increasing progress in trace")
		}
	}
}

func TestSimulator_RunCancellation(t *testing.T) {
	sim, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var emitted []navigation.TraversalState
	done := make(chan navigation.TraversalState, 1)
	go func() {
		done <- sim.Run(ctx, time.Millisecond, func(s navigation.TraversalState) {
			emitted = append(emitted, s)
			if len(emitted) == 5 {
				cancel()
			}
		})
	}()

	select {
	case final := <-done:
		if final.Arrived {
			t.Error("expected cancellation before arrival")
		}
		if final.Progress <= 0 {
			t.Error("expected some progress before cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestSimulator_RunToArrival(t *testing.T) {
	sim, err := navigation.NewSimulator([]geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ticks := 0
	final := sim.Run(context.Background(), time.Millisecond, func(navigation.TraversalState) {
		ticks++
	})

	if !final.Arrived {
		t.Error("expected run to finish arrived")
	}
	if ticks != 5 {
		t.Errorf("expected 5 ticks for delta 0.2, got %d", ticks)
	}
}
