package domain

import (
	"math"
	"testing"
)

func TestPointValid(t *testing.T) {
	cases := []struct {
		point Point
		want  bool
	}{
		{Point{Lng: 0, Lat: 0}, true},
		{Point{Lng: 180, Lat: 90}, true},
		{Point{Lng: -180, Lat: -90}, true},
		{Point{Lng: 181, Lat: 0}, false},
		{Point{Lng: 0, Lat: -91}, false},
	}
	for _, tc := range cases {
		if got := tc.point.Valid(); got != tc.want {
			t.Errorf("Valid(%+v) = %v, want %v", tc.point, got, tc.want)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	a := Point{Lng: 77.5946, Lat: 12.9716}

	if d := a.DistanceMeters(a); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}

	// one degree of latitude is close to 111.2 km everywhere
	b := Point{Lng: a.Lng, Lat: a.Lat + 1}
	d := a.DistanceMeters(b)
	if math.Abs(d-111195) > 300 {
		t.Errorf("1 degree latitude = %f m, expected about 111195", d)
	}

	if a.DistanceMeters(b) != b.DistanceMeters(a) {
		t.Error("distance should be symmetric")
	}
}
