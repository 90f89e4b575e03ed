package interp

// TemporalBracket is the pair of time steps around a query time.
type TemporalBracket struct {
	Step    int
	HasNext bool    // Step+1 exists and brackets the query.
	Since   float64 // Query time minus the Step time.
	Until   float64 // Step+1 time minus the query time.
}

// Stale reports whether the query fell past the end of the time axis (or
// the axis has a single step), so only Step can be used.
func (b TemporalBracket) Stale() bool {
	return !b.HasNext
}

// ResolveTime finds the time steps around t. Step is the greatest index
// whose time does not exceed t. A query exactly on the last step is
// bracketed by the final pair with Until = 0, and a query before the first
// step is held at step 0.
func ResolveTime(t float64, axis []float64) TemporalBracket {
	n := len(axis)
	var b TemporalBracket
	for i := 0; i < n; i++ {
		if axis[i] <= t {
			b.Step = i
		}
	}

	if n <= 1 || t > axis[n-1] {
		return b
	}

	if b.Step == n-1 {
		b.Step = n - 2
	}
	b.HasNext = true
	b.Since = t - axis[b.Step]
	if b.Since < 0 {
		b.Since = 0
	}
	b.Until = axis[b.Step+1] - t
	return b
}
