package quantiles

import "math"

// MaxTotalElements is the largest stream the level hierarchy is sized for.
// Buffer capacities are chosen so that a stream of this many values still
// answers within the requested error.
const MaxTotalElements int64 = 1 << 40

// maxCeiling keeps 2^(b-1) representable while solving for b.
const maxCeiling int64 = 1 << 62

// bufferCapacity returns the per-level buffer size for numQuantiles
// cut-points given a ceiling on the total number of elements.
func bufferCapacity(numQuantiles int, maxTotal int64) int {
	if numQuantiles < 2 {
		numQuantiles = 2
	}
	eps := 1 / (float64(numQuantiles) - 1)

	// Level b-1 becomes full at most once for maxTotal elements when
	// (b-2)*2^(b-2) exceeds eps*maxTotal, so we grow b until it does.
	b := 2
	for float64(b-2)*math.Ldexp(1, b-2)+0.5 <= eps*float64(maxTotal) {
		b++
	}
	if b-1 >= 63 {
		return 2
	}
	return int(maxInt64(maxTotal>>uint(b-1), 2))
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
