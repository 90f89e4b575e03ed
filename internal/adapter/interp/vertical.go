package interp

// VerticalBracket is the pair of sigma levels straddling a query depth.
// Level+1 is the shallower of the two. Level is -1 when the query lies
// below the deepest level, leaving only Level+1 to sample.
type VerticalBracket struct {
	Level       int
	DistToLevel float64 // Gap to Level in meters, or NoLevel.
	DistToNext  float64 // Gap to Level+1 in meters, or NoLevel.
}

// Single reports whether the bracket collapsed onto one level, which only
// happens when the dataset has a single sigma level.
func (b VerticalBracket) Single() bool {
	return b.DistToLevel == NoLevel && b.DistToNext == NoLevel
}

// Below reports whether the query is deeper than every level.
func (b VerticalBracket) Below() bool {
	return b.Level < 0
}

// ResolveLevel finds the sigma levels around depth for a water column of
// floorDepth meters. Sigma runs from -1 at the seabed to 0 at the surface
// and maps to physical depth as -sigma*floorDepth.
//
// For example a depth of 1.5 m over levels at [2.2 1.7 1.2 0.7 0.2] m
// selects Level 1, the last level still deeper than the query.
func ResolveLevel(floorDepth, depth float64, sigma []float64) VerticalBracket {
	n := len(sigma)
	if n == 1 {
		return VerticalBracket{DistToLevel: NoLevel, DistToNext: NoLevel}
	}

	physical := make([]float64, n)
	for i, s := range sigma {
		physical[i] = -s * floorDepth
	}

	k := 0
	for k < n && physical[k] > depth {
		k++
	}
	level := k - 1

	b := VerticalBracket{Level: level, DistToLevel: NoLevel, DistToNext: NoLevel}
	if level > 0 {
		b.DistToLevel = physical[level] - depth
	}
	if level < n-1 {
		b.DistToNext = depth - physical[level+1]
	}
	return b
}
