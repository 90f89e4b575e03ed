package domain

import (
	"fmt"
	"time"
)

// Dataset is the immutable gridded ocean-model snapshot every query reads.
// It is loaded once and never mutated afterwards.
type Dataset struct {
	Rho Mesh // Primary (scalar) grid.
	U   Mesh // Staggered grid for the east/xi component.
	V   Mesh // Staggered grid for the north/eta component.

	Bathymetry Grid2D  // Seafloor depth on the rho grid, meters positive down.
	Angle      *Grid2D // Optional grid rotation on the rho grid, radians.

	Sigma []float64 // Sigma levels from seabed (-1) to surface (0).
	Time  []float64 // Strictly increasing time axis.
	Epoch time.Time // Zero of the time axis, if the source declared one.

	Scalar Field  // Scalar quantity on the rho grid.
	East   *Field // Optional vector component on the U grid.
	North  *Field // Optional vector component on the V grid.
}

// HasVector reports whether both vector components are present.
func (d *Dataset) HasVector() bool {
	return d.East != nil && d.North != nil
}

// TimeAt converts a time axis value to wall-clock time using the epoch.
func (d *Dataset) TimeAt(t float64) time.Time {
	return d.Epoch.Add(time.Duration(t * float64(time.Second)))
}

// AxisValue converts a wall-clock time to a time axis value.
func (d *Dataset) AxisValue(t time.Time) float64 {
	return t.Sub(d.Epoch).Seconds()
}

// Validate checks every array invariant the interpolation relies on.
func (d *Dataset) Validate() error {
	for _, m := range []Mesh{d.Rho, d.U, d.V} {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("invalid mesh: %w", err)
		}
	}

	if err := d.Bathymetry.Validate(); err != nil {
		return fmt.Errorf("invalid bathymetry: %w", err)
	}
	if d.Bathymetry.Rows != d.Rho.Rows() || d.Bathymetry.Cols != d.Rho.Cols() {
		return fmt.Errorf("bathymetry is %dx%d, expected %dx%d",
			d.Bathymetry.Rows, d.Bathymetry.Cols, d.Rho.Rows(), d.Rho.Cols())
	}
	if d.Angle != nil {
		if err := d.Angle.validateFinite(); err != nil {
			return fmt.Errorf("invalid angle: %w", err)
		}
		if d.Angle.Rows != d.Rho.Rows() || d.Angle.Cols != d.Rho.Cols() {
			return fmt.Errorf("angle is %dx%d, expected %dx%d",
				d.Angle.Rows, d.Angle.Cols, d.Rho.Rows(), d.Rho.Cols())
		}
	}

	if len(d.Sigma) == 0 {
		return fmt.Errorf("at least one sigma level is required")
	}
	for i, s := range d.Sigma {
		if s < -1 || s > 0 {
			return fmt.Errorf("sigma level %d = %g is outside [-1, 0]", i, s)
		}
		if i > 0 && s <= d.Sigma[i-1] {
			return fmt.Errorf("sigma levels must be strictly increasing")
		}
	}

	if len(d.Time) == 0 {
		return fmt.Errorf("at least one time step is required")
	}
	for i := 1; i < len(d.Time); i++ {
		if d.Time[i] <= d.Time[i-1] {
			return fmt.Errorf("time axis must be strictly increasing")
		}
	}

	if err := d.Scalar.Validate(len(d.Time), len(d.Sigma), d.Rho); err != nil {
		return err
	}
	if (d.East == nil) != (d.North == nil) {
		return fmt.Errorf("vector components must be supplied together")
	}
	if d.East != nil {
		if err := d.East.Validate(len(d.Time), len(d.Sigma), d.U); err != nil {
			return err
		}
		if err := d.North.Validate(len(d.Time), len(d.Sigma), d.V); err != nil {
			return err
		}
	}

	return nil
}
