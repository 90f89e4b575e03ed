package interp

import (
	"math"
	"testing"
)

// TestResolveLevel_Interior tests bracketing between two interior levels
func TestResolveLevel_Interior(t *testing.T) {
	// Floor 10 m: levels at 10, 7.5, 5, 2.5, 0 m.
	sigma := []float64{-1, -0.75, -0.5, -0.25, 0}

	b := ResolveLevel(10, 6, sigma)
	if b.Level != 1 {
		t.Fatalf("expected level 1, got %d", b.Level)
	}
	if math.Abs(b.DistToLevel-1.5) > 1e-12 {
		t.Errorf("DistToLevel: expected 1.5, got %.6f", b.DistToLevel)
	}
	if math.Abs(b.DistToNext-1) > 1e-12 {
		t.Errorf("DistToNext: expected 1, got %.6f", b.DistToNext)
	}
	if b.Single() {
		t.Errorf("interior bracket reported as single level")
	}
}

// TestResolveLevel_Edges tests the sentinel cases at the column ends
func TestResolveLevel_Edges(t *testing.T) {
	sigma := []float64{-1, -0.75, -0.5, -0.25, 0}

	tests := []struct {
		name    string
		depth   float64
		level   int
		toLevel float64
		toNext  float64
	}{
		{"just above seabed level", 9, 0, NoLevel, 1.5},
		{"below every level", 12, -1, NoLevel, 2},
		{"on the deepest level", 10, -1, NoLevel, 0},
		{"above the surface level", -1, 4, 1, NoLevel},
		{"on a level", 5, 1, 2.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ResolveLevel(10, tt.depth, sigma)
			if b.Level != tt.level {
				t.Fatalf("expected level %d, got %d", tt.level, b.Level)
			}
			if math.Abs(b.DistToLevel-tt.toLevel) > 1e-12 {
				t.Errorf("DistToLevel: expected %.6f, got %.6f", tt.toLevel, b.DistToLevel)
			}
			if math.Abs(b.DistToNext-tt.toNext) > 1e-12 {
				t.Errorf("DistToNext: expected %.6f, got %.6f", tt.toNext, b.DistToNext)
			}
		})
	}
}

// TestResolveLevel_BelowCellCentres tests that a query between the deepest
// cell centre and the seabed resolves to the deepest level alone
func TestResolveLevel_BelowCellCentres(t *testing.T) {
	// Floor 10 m: levels at 7.5 and 2.5 m.
	sigma := []float64{-0.75, -0.25}

	for _, depth := range []float64{7.5, 9, 10} {
		b := ResolveLevel(10, depth, sigma)
		if !b.Below() {
			t.Fatalf("depth %.1f: expected a bracket below the deepest level, got %+v", depth, b)
		}
		if b.DistToLevel != NoLevel {
			t.Errorf("depth %.1f: DistToLevel: expected NoLevel, got %.6f", depth, b.DistToLevel)
		}
		if math.Abs(b.DistToNext-(depth-7.5)) > 1e-12 {
			t.Errorf("depth %.1f: DistToNext: expected %.6f, got %.6f", depth, depth-7.5, b.DistToNext)
		}
		if b.Single() {
			t.Errorf("depth %.1f: bracket reported as single level", depth)
		}
	}

	b := ResolveLevel(10, 7, sigma)
	if b.Below() || b.Level != 0 {
		t.Errorf("depth 7: expected level 0, got %+v", b)
	}
}

// TestResolveLevel_SingleLevel tests that one level sets both sentinels
func TestResolveLevel_SingleLevel(t *testing.T) {
	for _, depth := range []float64{-3, 0, 2, 5, 50} {
		b := ResolveLevel(5, depth, []float64{-1})
		if b.Level != 0 {
			t.Errorf("depth %.1f: expected level 0, got %d", depth, b.Level)
		}
		if !b.Single() {
			t.Errorf("depth %.1f: expected both sentinels, got %+v", depth, b)
		}
	}
}
