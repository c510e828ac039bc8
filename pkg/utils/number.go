package utils

import "math"

// ScaleInt multiplies n by factor and rounds to the nearest integer.
func ScaleInt(n int, factor float64) int {
	return int(math.Round(float64(n) * factor))
}

// AddCounts adds two non-negative counts, saturating at math.MaxInt instead
// of wrapping.
func AddCounts(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
