package refdata

import (
	"math"
	"testing"
)

func TestGreatCircleKm(t *testing.T) {
	// Paris CDG to New York JFK, roughly 5834 km.
	got := GreatCircleKm(49.0097, 2.5479, 40.6413, -73.7781)
	if math.Abs(got-5834) > 60 {
		t.Errorf("CDG-JFK = %f km, want ~5834", got)
	}
}

func TestGreatCircleSymmetry(t *testing.T) {
	ab := GreatCircleKm(47.4647, 8.5492, 40.6413, -73.7781)
	ba := GreatCircleKm(40.6413, -73.7781, 47.4647, 8.5492)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestGreatCircleSamePoint(t *testing.T) {
	if got := GreatCircleKm(47.4647, 8.5492, 47.4647, 8.5492); got != 0 {
		t.Errorf("same point distance %f, want 0", got)
	}
}
