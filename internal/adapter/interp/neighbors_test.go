package interp

import (
	"errors"
	"math"
	"testing"

	"go.ngs.io/ocean-field/internal/domain"
)

// regularMesh builds a rows×cols mesh with nodes spaced dx meters apart.
func regularMesh(rows, cols int, dx float64) domain.Mesh {
	east := domain.NewGrid2D(rows, cols)
	north := domain.NewGrid2D(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			east.Set(r, c, float64(c)*dx)
			north.Set(r, c, float64(r)*dx)
		}
	}
	return domain.Mesh{Name: "rho", East: east, North: north, Mask: domain.NewMask(rows, cols)}
}

// TestFindNearest4_Ascending tests that neighbors come back closest first
func TestFindNearest4_Ascending(t *testing.T) {
	mesh := regularMesh(5, 5, 10)

	n, err := FindNearest4(13, 22, mesh, DefaultMaxSearchRadius)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Closest node is (row 2, col 1) at (10, 20).
	if n.Row[0] != 2 || n.Col[0] != 1 {
		t.Errorf("nearest node: expected (2, 1), got (%d, %d)", n.Row[0], n.Col[0])
	}
	if math.Abs(n.Dist[0]-math.Hypot(3, 2)) > 1e-12 {
		t.Errorf("nearest distance: expected %.6f, got %.6f", math.Hypot(3, 2), n.Dist[0])
	}
	for i := 1; i < 4; i++ {
		if n.Dist[i] < n.Dist[i-1] {
			t.Errorf("distances not ascending: %v", n.Dist)
		}
	}

	want := map[[2]int]bool{{2, 1}: true, {2, 2}: true, {3, 1}: true, {3, 2}: true}
	for i := 0; i < 4; i++ {
		if !want[[2]int{n.Row[i], n.Col[i]}] {
			t.Errorf("unexpected neighbor (%d, %d)", n.Row[i], n.Col[i])
		}
	}
}

// TestFindNearest4_ExactNode tests a query sitting on a node
func TestFindNearest4_ExactNode(t *testing.T) {
	mesh := regularMesh(3, 3, 10)

	n, err := FindNearest4(10, 10, mesh, DefaultMaxSearchRadius)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n.Dist[0] != 0 {
		t.Errorf("expected zero distance, got %.6f", n.Dist[0])
	}
	if n.Row[0] != 1 || n.Col[0] != 1 {
		t.Errorf("expected node (1, 1), got (%d, %d)", n.Row[0], n.Col[0])
	}
}

// TestFindNearest4_TieBreak tests that equal distances keep row-major scan order
func TestFindNearest4_TieBreak(t *testing.T) {
	mesh := regularMesh(2, 2, 10)

	n, err := FindNearest4(5, 5, mesh, DefaultMaxSearchRadius)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := [4][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i := 0; i < 4; i++ {
		if n.Row[i] != want[i][0] || n.Col[i] != want[i][1] {
			t.Errorf("slot %d: expected %v, got (%d, %d)", i, want[i], n.Row[i], n.Col[i])
		}
		if math.Abs(n.Dist[i]-math.Sqrt(50)) > 1e-12 {
			t.Errorf("slot %d: expected distance %.6f, got %.6f", i, math.Sqrt(50), n.Dist[i])
		}
	}
}

// TestFindNearest4_OutOfGrid tests the search radius failure
func TestFindNearest4_OutOfGrid(t *testing.T) {
	mesh := regularMesh(2, 2, 10)

	n, err := FindNearest4(200000, 0, mesh, DefaultMaxSearchRadius)
	if !errors.Is(err, domain.ErrOutOfGrid) {
		t.Fatalf("expected ErrOutOfGrid, got %v", err)
	}
	if n != (Neighbors{}) {
		t.Errorf("expected zeroed neighbors on failure, got %+v", n)
	}
}

// TestFindNearest4_TooFewNodes tests that a mesh with fewer than four nodes never succeeds
func TestFindNearest4_TooFewNodes(t *testing.T) {
	mesh := regularMesh(1, 3, 10)

	if _, err := FindNearest4(10, 0, mesh, DefaultMaxSearchRadius); !errors.Is(err, domain.ErrOutOfGrid) {
		t.Fatalf("expected ErrOutOfGrid, got %v", err)
	}
}

// TestFindNearest4_RadiusMonotonic tests that a larger radius never turns success into failure
func TestFindNearest4_RadiusMonotonic(t *testing.T) {
	mesh := regularMesh(4, 4, 1000)
	points := [][2]float64{{0, 0}, {1500, 1500}, {-20000, 500}, {5000, 90000}, {250000, 250000}}
	radii := []float64{100, 1000, 10000, DefaultMaxSearchRadius, 1e6}

	for _, p := range points {
		succeeded := false
		for _, r := range radii {
			_, err := FindNearest4(p[0], p[1], mesh, r)
			if succeeded && err != nil {
				t.Errorf("point %v: radius %.0f failed after a smaller radius succeeded", p, r)
			}
			if err == nil {
				succeeded = true
			}
		}
	}
}
