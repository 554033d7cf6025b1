package ctdf

import (
	"math"
	"testing"
)

func TestInterpolatePath(t *testing.T) {
	start := LatLng{28.6150, 77.2095}
	end := LatLng{28.6250, 77.2150}

	path := InterpolatePath(start, end, 5)

	if len(path) != 6 {
		t.Fatalf("len(path) = %d, want 6", len(path))
	}
	if path[0] != start {
		t.Errorf("path[0] = %v, want %v", path[0], start)
	}
	if path[5] != end {
		t.Errorf("path[5] = %v, want %v", path[5], end)
	}

	midLat := start.Latitude() + (end.Latitude()-start.Latitude())*0.4
	if math.Abs(path[2].Latitude()-midLat) > 1e-12 {
		t.Errorf("path[2] latitude = %f, want %f", path[2].Latitude(), midLat)
	}
}

func TestInterpolatePathNoSteps(t *testing.T) {
	path := InterpolatePath(LatLng{1, 2}, LatLng{3, 4}, 0)

	if len(path) != 2 {
		t.Fatalf("len(path) = %d, want 2", len(path))
	}
}

func TestTransportTypeIsValid(t *testing.T) {
	for _, transportType := range []TransportType{TransportTypeBus, TransportTypeMetro, TransportTypeTram} {
		if !transportType.IsValid() {
			t.Errorf("%s should be valid", transportType)
		}
	}

	if TransportType("ferry").IsValid() {
		t.Error("ferry should not be valid")
	}
}

func TestBoundsContains(t *testing.T) {
	bounds := Bounds{
		BottomLeft: LatLng{28.60, 77.20},
		TopRight:   LatLng{28.62, 77.22},
	}

	tests := []struct {
		point LatLng
		want  bool
	}{
		{LatLng{28.61, 77.21}, true},
		{LatLng{28.60, 77.20}, true},
		{LatLng{28.63, 77.21}, false},
		{LatLng{28.61, 77.19}, false},
	}

	for _, tt := range tests {
		if got := bounds.Contains(tt.point); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}
