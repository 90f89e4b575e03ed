package domain

import (
	"fmt"
)

// Field holds one published quantity indexed by (time, sigma level, row,
// col) in a single flat buffer.
type Field struct {
	Name   string
	Steps  int // Time steps.
	Levels int // Sigma levels.
	Rows   int
	Cols   int
	Data   []float64
}

// NewField allocates a zeroed field of the given shape.
func NewField(name string, steps, levels, rows, cols int) Field {
	return Field{
		Name:   name,
		Steps:  steps,
		Levels: levels,
		Rows:   rows,
		Cols:   cols,
		Data:   make([]float64, steps*levels*rows*cols),
	}
}

func (f Field) offset(t, k, r, c int) int {
	if t < 0 || t >= f.Steps || k < 0 || k >= f.Levels || r < 0 || r >= f.Rows || c < 0 || c >= f.Cols {
		panic(fmt.Sprintf("field %s index (%d, %d, %d, %d) out of range [%d, %d, %d, %d]",
			f.Name, t, k, r, c, f.Steps, f.Levels, f.Rows, f.Cols))
	}
	return ((t*f.Levels+k)*f.Rows+r)*f.Cols + c
}

// At returns the value at time step t, level k, row r, col c.
func (f Field) At(t, k, r, c int) float64 {
	return f.Data[f.offset(t, k, r, c)]
}

// Set stores v at (t, k, r, c).
func (f Field) Set(t, k, r, c int, v float64) {
	f.Data[f.offset(t, k, r, c)] = v
}

// Validate checks the buffer length and that the field matches the
// expected time, level and horizontal shape.
func (f Field) Validate(steps, levels int, mesh Mesh) error {
	if f.Steps != steps {
		return fmt.Errorf("field %s has %d time steps, expected %d", f.Name, f.Steps, steps)
	}
	if f.Levels != levels {
		return fmt.Errorf("field %s has %d levels, expected %d", f.Name, f.Levels, levels)
	}
	if f.Rows != mesh.Rows() || f.Cols != mesh.Cols() {
		return fmt.Errorf("field %s is %dx%d, expected %dx%d to match the %s mesh",
			f.Name, f.Rows, f.Cols, mesh.Rows(), mesh.Cols(), mesh.Name)
	}
	if len(f.Data) != steps*levels*f.Rows*f.Cols {
		return fmt.Errorf("field %s holds %d values, expected %d", f.Name, len(f.Data), steps*levels*f.Rows*f.Cols)
	}
	return nil
}
