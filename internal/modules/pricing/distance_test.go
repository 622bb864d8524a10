package pricing

import (
	"math"
	"testing"
)

func TestClassifyDistance(t *testing.T) {
	tests := []struct {
		miles float64
		want  Band
	}{
		{0, BandShort},
		{499.99, BandShort},
		{500, BandShort},
		{500.01, BandMid},
		{1000, BandMid},
		{1500, BandMid},
		{1500.01, BandLong},
		{3000, BandLong},
	}

	for _, tt := range tests {
		if got := ClassifyDistance(tt.miles); got != tt.want {
			t.Errorf("ClassifyDistance(%.2f) = %s, want %s", tt.miles, got, tt.want)
		}
	}
}

func TestRoadMiles(t *testing.T) {
	// Los Angeles to San Francisco: roughly 347 great-circle miles,
	// scaled up by the road correction factor.
	got := RoadMiles(34.0522, -118.2437, 37.7749, -122.4194)
	if math.Abs(got-399.56) > 0.01 {
		t.Errorf("RoadMiles(LA, SF) = %.2f, want 399.56", got)
	}

	if got := RoadMiles(34.0522, -118.2437, 34.0522, -118.2437); got != 0 {
		t.Errorf("RoadMiles(same point) = %.2f, want 0", got)
	}

	// Symmetry: distance must not depend on direction.
	forward := RoadMiles(40.7128, -74.0060, 41.8781, -87.6298)
	backward := RoadMiles(41.8781, -87.6298, 40.7128, -74.0060)
	if forward != backward {
		t.Errorf("RoadMiles not symmetric: %.2f vs %.2f", forward, backward)
	}
	if forward <= 0 {
		t.Errorf("RoadMiles(NYC, Chicago) = %.2f, want positive", forward)
	}
}
