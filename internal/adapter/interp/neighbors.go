package interp

import (
	"fmt"
	"math"

	"go.ngs.io/ocean-field/internal/domain"
)

// DefaultMaxSearchRadius bounds the nearest-node search in meters. A query
// without four nodes inside it is treated as off the grid.
const DefaultMaxSearchRadius = 100000.0

// Neighbors holds the four nearest mesh nodes in ascending distance order.
type Neighbors struct {
	Row  [4]int
	Col  [4]int
	Dist [4]float64 // Planar distance in meters.
}

// FindNearest4 scans every node of mesh in row-major order and keeps the
// four closest to (x, y). Ties keep the node encountered first.
//
// The scan is O(rows×cols); model grids are small enough that this is
// cheaper than maintaining a spatial index.
func FindNearest4(x, y float64, mesh domain.Mesh, maxRadius float64) (Neighbors, error) {
	var n Neighbors
	var best [4]float64
	limit := maxRadius * maxRadius
	for i := range best {
		best[i] = limit
	}

	rows, cols := mesh.Rows(), mesh.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dx := mesh.East.Data[r*cols+c] - x
			dy := mesh.North.Data[r*cols+c] - y
			d2 := dx*dx + dy*dy

			slot := -1
			for i := 0; i < 4; i++ {
				if d2 < best[i] {
					slot = i
					break
				}
			}
			if slot < 0 {
				continue
			}
			for i := 3; i > slot; i-- {
				best[i] = best[i-1]
				n.Row[i] = n.Row[i-1]
				n.Col[i] = n.Col[i-1]
			}
			best[slot] = d2
			n.Row[slot] = r
			n.Col[slot] = c
		}
	}

	for i := range best {
		if best[i] == limit {
			return Neighbors{}, fmt.Errorf("%s grid: no node within %.0f m of (%.1f, %.1f): %w",
				mesh.Name, maxRadius, x, y, domain.ErrOutOfGrid)
		}
		n.Dist[i] = math.Sqrt(best[i])
	}

	return n, nil
}
