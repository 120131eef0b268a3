package util

import (
	"math"
	"sort"
)

// Median returns the median of x, averaging the two middle values when x has
// an even length. It returns NaN for an empty slice. x is not modified.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := SortedCopy(x)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// SortedCopy returns an ascending copy of x.
func SortedCopy(x []float64) []float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	return s
}

// Tail returns the last n elements of x, or x itself when it is shorter.
func Tail(x []float64, n int) []float64 {
	if n >= len(x) {
		return x
	}
	return x[len(x)-n:]
}
