package geodesy

import (
	"math"
	"testing"
)

// TestToLocal_Origin tests that the origin maps to (0, 0).
func TestToLocal_Origin(t *testing.T) {
	c, err := NewConverter(Origin{Lat: 41.5, Lon: -70.7})
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	x, y := c.ToLocal(41.5, -70.7)
	if x != 0 || y != 0 {
		t.Errorf("ToLocal(origin) = (%v, %v), want (0, 0)", x, y)
	}
}

// TestToLocal_Scale tests meters per degree against known WGS84 values.
func TestToLocal_Scale(t *testing.T) {
	tests := []struct {
		lat     float64
		wantLat float64 // meters per degree of latitude
		wantLon float64 // meters per degree of longitude
	}{
		{0, 110574, 111320},
		{45, 111132, 78847},
		{60, 111412, 55800},
	}

	for _, tt := range tests {
		c, err := NewConverter(Origin{Lat: tt.lat})
		if err != nil {
			t.Fatalf("NewConverter(%v) error: %v", tt.lat, err)
		}
		_, y := c.ToLocal(tt.lat+0.01, 0)
		x, _ := c.ToLocal(tt.lat, 0.01)
		if math.Abs(y*100-tt.wantLat) > 2 {
			t.Errorf("lat %v: meters per degree latitude = %.1f, want %.0f", tt.lat, y*100, tt.wantLat)
		}
		if math.Abs(x*100-tt.wantLon) > 2 {
			t.Errorf("lat %v: meters per degree longitude = %.1f, want %.0f", tt.lat, x*100, tt.wantLon)
		}
	}
}

// TestRoundTrip tests that ToGeo inverts ToLocal.
func TestRoundTrip(t *testing.T) {
	c, err := NewConverter(Origin{Lat: 43.2, Lon: 179.9})
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}

	points := [][2]float64{
		{43.2, 179.9},
		{43.25, -179.95}, // across the antimeridian
		{43.1, 179.8},
	}
	for _, p := range points {
		x, y := c.ToLocal(p[0], p[1])
		lat, lon := c.ToGeo(x, y)
		if math.Abs(lat-p[0]) > 1e-9 || math.Abs(lon-p[1]) > 1e-9 {
			t.Errorf("round trip of (%v, %v) = (%v, %v)", p[0], p[1], lat, lon)
		}
	}

	x, _ := c.ToLocal(43.2, -179.95)
	if x <= 0 || x > 10000 {
		t.Errorf("east offset across the antimeridian = %v, want a small positive distance", x)
	}
}

// TestNewConverter_Invalid tests origin validation.
func TestNewConverter_Invalid(t *testing.T) {
	for _, o := range []Origin{{Lat: 91}, {Lat: -90}, {Lon: 400}} {
		if _, err := NewConverter(o); err == nil {
			t.Errorf("NewConverter(%+v) should fail", o)
		}
	}
}
