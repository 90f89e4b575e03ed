// Package interp provides the search and averaging primitives used to
// sample gridded ocean-model output.
package interp

import "math"

// BadValue is returned by Combine when no sample is usable.
const BadValue = -1.0

// NoLevel marks a missing bracket distance. Samples carrying it are
// excluded from averaging.
const NoLevel = -1.0

// Sample is one input to an inverse-distance weighted average.
type Sample struct {
	Value float64
	Dist  float64 // Distance from the query; the weight is 1/Dist.
	Valid bool
}

// usable reports whether s may contribute to an average. Negative
// distances are sentinels and non-finite values are fill data.
func (s Sample) usable() bool {
	return s.Valid && s.Dist >= 0 && !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// Combine computes the inverse-distance weighted mean of the usable
// samples:
//
//	v = Σ(v_i / d_i) / Σ(1 / d_i)
//
// A usable sample at distance zero is returned as-is, the first one
// encountered winning. When no sample is usable Combine returns
// (BadValue, false).
func Combine(samples []Sample) (float64, bool) {
	var num, den float64
	n := 0
	for _, s := range samples {
		if !s.usable() {
			continue
		}
		if s.Dist == 0 {
			return s.Value, true
		}
		w := 1 / s.Dist
		num += s.Value * w
		den += w
		n++
	}
	if n == 0 {
		return BadValue, false
	}
	return num / den, true
}
