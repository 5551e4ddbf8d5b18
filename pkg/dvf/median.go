package dvf

import (
	"math"
	"sort"
)

// median returns the standard list median of values: the middle element for
// odd counts, the mean of the two middle elements for even counts, after an
// ascending sort. Returns 0 for an empty list. The input is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// round2 rounds to 2 decimal places, matching the precision the upstream
// producer uses for prix_m2_med.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
