package scalar

import "math"

// IsUseful reports whether n is a finite number (not NaN, not ±Inf).
func IsUseful(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// Normalize maps n from [min, max] onto [0, 1] without clamping.
// A zero-width range has no interior, so it returns 0 below min and 1 otherwise.
func Normalize(min, max, n float64) float64 {
	r := max - min
	if r == 0 {
		if n < min {
			return 0
		}
		return 1
	}
	return (n - min) / r
}

// NormalizeClamped is Normalize clamped to [0, 1].
func NormalizeClamped(min, max, n float64) float64 {
	return Clamp(Normalize(min, max, n), 0, 1)
}

// Clamp restricts n to [lo, hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Lerp returns the value at parameter n between a and b. The endpoints are
// exact: Lerp(0, a, b) == a and Lerp(1, a, b) == b.
func Lerp(n, a, b float64) float64 {
	return a*(1-n) + b*n
}
