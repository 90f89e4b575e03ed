package domain

import (
	"errors"
	"fmt"
)

// Query is one request for field values at a point.
type Query struct {
	X     float64 // Easting in meters, same planar frame as the meshes.
	Y     float64 // Northing in meters.
	Depth float64 // Depth below the surface in meters.
	Time  float64 // Time in the units of the dataset time axis.
}

// Result is the interpolated state at a query point.
type Result struct {
	Value       float64 // Scalar field value.
	East        float64 // East vector component, meaningful when VectorValid.
	North       float64 // North vector component, meaningful when VectorValid.
	VectorValid bool
	Altitude    float64 // Height above the seafloor in meters.
	FloorDepth  float64 // Interpolated seafloor depth in meters.
	Stale       bool    // Query time was past the last time step.
}

var (
	// ErrOutOfGrid means no four grid nodes lie within the search radius.
	ErrOutOfGrid = errors.New("query point is outside the grid")

	// ErrAllLand means every contributing sample was land-masked or not a
	// number.
	ErrAllLand = errors.New("all contributing samples are land-masked or invalid")
)

// InitError reports a dataset that could not be loaded or failed
// validation. An engine must never be built from such a dataset.
type InitError struct {
	Source string // File or component that failed.
	Err    error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("dataset initialization failed: %v", e.Err)
	}
	return fmt.Sprintf("dataset initialization failed (%s): %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
