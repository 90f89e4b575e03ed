package domain

import (
	"fmt"
	"math"
)

// Grid2D is a rows×cols array stored row-major in a single buffer.
type Grid2D struct {
	Rows int
	Cols int
	Data []float64 // Data[r*Cols+c] is the value at (r, c).
}

// NewGrid2D allocates a zeroed rows×cols grid.
func NewGrid2D(rows, cols int) Grid2D {
	return Grid2D{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at (r, c). It panics on out-of-range indices.
func (g Grid2D) At(r, c int) float64 {
	if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
		panic(fmt.Sprintf("grid index (%d, %d) out of range [%d, %d]", r, c, g.Rows, g.Cols))
	}
	return g.Data[r*g.Cols+c]
}

// Set stores v at (r, c).
func (g Grid2D) Set(r, c int, v float64) {
	g.Data[r*g.Cols+c] = v
}

// Validate checks that the buffer matches the declared shape.
func (g Grid2D) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("grid must have positive dimensions, got %dx%d", g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return fmt.Errorf("grid holds %d values, expected %d", len(g.Data), g.Rows*g.Cols)
	}
	return nil
}

// validateFinite additionally rejects NaN and infinite entries.
func (g Grid2D) validateFinite() error {
	if err := g.Validate(); err != nil {
		return err
	}
	for i, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at (%d, %d)", i/g.Cols, i%g.Cols)
		}
	}
	return nil
}

// Mask flags navigable water cells. Water[r*Cols+c] is true for water.
type Mask struct {
	Rows  int
	Cols  int
	Water []bool
}

// NewMask returns a mask with every cell set to water.
func NewMask(rows, cols int) Mask {
	water := make([]bool, rows*cols)
	for i := range water {
		water[i] = true
	}
	return Mask{Rows: rows, Cols: cols, Water: water}
}

// IsWater reports whether (r, c) is navigable water.
func (m Mask) IsWater(r, c int) bool {
	return m.Water[r*m.Cols+c]
}

// Validate checks that the mask is rows×cols.
func (m Mask) Validate(rows, cols int) error {
	if m.Rows != rows || m.Cols != cols {
		return fmt.Errorf("mask is %dx%d, expected %dx%d", m.Rows, m.Cols, rows, cols)
	}
	if len(m.Water) != rows*cols {
		return fmt.Errorf("mask holds %d cells, expected %d", len(m.Water), rows*cols)
	}
	return nil
}

// DeriveStaggeredMask builds a u- or v-point mask from the rho mask using
// the ROMS staggering rule: a velocity point is water only when both rho
// cells it sits between are water. If the requested shape does not match
// either staggering the result is all water.
func DeriveStaggeredMask(rho Mask, rows, cols int) Mask {
	out := NewMask(rows, cols)
	switch {
	case rows == rho.Rows && cols == rho.Cols-1:
		// u points sit between columns.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out.Water[r*cols+c] = rho.IsWater(r, c) && rho.IsWater(r, c+1)
			}
		}
	case rows == rho.Rows-1 && cols == rho.Cols:
		// v points sit between rows.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out.Water[r*cols+c] = rho.IsWater(r, c) && rho.IsWater(r+1, c)
			}
		}
	}
	return out
}

// Mesh is one horizontal grid flavor: planar node coordinates plus the
// water mask aligned with them.
type Mesh struct {
	Name  string // E.g. "rho", "u", "v".
	East  Grid2D // Easting in meters.
	North Grid2D // Northing in meters.
	Mask  Mask
}

// Rows returns the number of rows in the mesh.
func (m Mesh) Rows() int { return m.East.Rows }

// Cols returns the number of columns in the mesh.
func (m Mesh) Cols() int { return m.East.Cols }

// Validate checks that both coordinate arrays are finite, rectangular and
// share a shape with the mask.
func (m Mesh) Validate() error {
	if err := m.East.validateFinite(); err != nil {
		return fmt.Errorf("%s easting: %w", m.Name, err)
	}
	if err := m.North.validateFinite(); err != nil {
		return fmt.Errorf("%s northing: %w", m.Name, err)
	}
	if m.East.Rows != m.North.Rows || m.East.Cols != m.North.Cols {
		return fmt.Errorf("%s easting is %dx%d but northing is %dx%d",
			m.Name, m.East.Rows, m.East.Cols, m.North.Rows, m.North.Cols)
	}
	if err := m.Mask.Validate(m.East.Rows, m.East.Cols); err != nil {
		return fmt.Errorf("%s mask: %w", m.Name, err)
	}
	return nil
}
