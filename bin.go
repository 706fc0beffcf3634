package quantiles

import "sort"

// Bin returns the bin of v given ascending boundaries, typically the output
// of Quantiles. A value equal to a boundary gets that boundary's index (the
// lowest one if it repeats); any other value gets the number of boundaries
// below it. Values beyond the maximum land in bin len(boundaries).
func Bin(boundaries []float64, v float64) int {
	return sort.SearchFloat64s(boundaries, v)
}
