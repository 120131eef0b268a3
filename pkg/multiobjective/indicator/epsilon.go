// Package indicator implements the additive epsilon quality indicator used by
// indicator-based selection. All objective vectors are compared for
// minimization.
package indicator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidObjectiveValue is returned when an objective vector contains a
// non-finite value or does not have the expected length.
var ErrInvalidObjectiveValue = errors.New("invalid objective value")

// Box is the bounding box of a set of objective vectors.
type Box struct {
	Min []float64
	Max []float64
}

// NewBox computes the component-wise minimum and maximum of points. Every
// point is validated against the length of the first one.
func NewBox(points [][]float64) (Box, error) {
	if len(points) == 0 {
		return Box{}, fmt.Errorf("%w: no objective vectors", ErrInvalidObjectiveValue)
	}
	m := len(points[0])
	if m == 0 {
		return Box{}, fmt.Errorf("%w: empty objective vector", ErrInvalidObjectiveValue)
	}

	box := Box{
		Min: append([]float64(nil), points[0]...),
		Max: append([]float64(nil), points[0]...),
	}
	for i, p := range points {
		if err := Validate(p, m); err != nil {
			return Box{}, fmt.Errorf("objective vector %d: %w", i, err)
		}
		for k, v := range p {
			box.Min[k] = math.Min(box.Min[k], v)
			box.Max[k] = math.Max(box.Max[k], v)
		}
	}
	return box, nil
}

// Ranges returns the width of the box along every objective. A zero width is
// reported as 1.
func (b Box) Ranges() []float64 {
	r := floats.SubTo(make([]float64, len(b.Max)), b.Max, b.Min)
	for k := range r {
		if r[k] == 0 {
			r[k] = 1
		}
	}
	return r
}

// Validate checks that v has length m and only finite values.
func Validate(v []float64, m int) error {
	if len(v) != m {
		return fmt.Errorf("%w: got %d objectives, want %d", ErrInvalidObjectiveValue, len(v), m)
	}
	for k, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: objective %d is %v", ErrInvalidObjectiveValue, k, x)
		}
	}
	return nil
}

// Epsilon returns the additive epsilon indicator of a relative to b: the
// smallest eps such that a shifted by eps weakly dominates b, each objective
// being scaled by the width of box. Negative values mean a dominates b.
func Epsilon(a, b []float64, box Box) (float64, error) {
	m := len(box.Min)
	if len(box.Max) != m {
		return 0, fmt.Errorf("%w: bounding box has %d minima and %d maxima", ErrInvalidObjectiveValue, m, len(box.Max))
	}
	if err := Validate(a, m); err != nil {
		return 0, err
	}
	if err := Validate(b, m); err != nil {
		return 0, err
	}
	return epsilon(a, b, box.Ranges()), nil
}

func epsilon(a, b, ranges []float64) float64 {
	maxEps := 0.0
	for k := range a {
		eps := (a[k] - b[k]) / ranges[k]
		if k == 0 || eps > maxEps {
			maxEps = eps
		}
	}
	return maxEps
}

// Matrix returns the N x N matrix whose entry (i, j) is the epsilon
// indicator of points[i] relative to points[j], using the bounding box of
// all points. The diagonal is zero.
func Matrix(points [][]float64) (*mat.Dense, error) {
	box, err := NewBox(points)
	if err != nil {
		return nil, err
	}
	ranges := box.Ranges()

	n := len(points)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			m.Set(i, j, epsilon(points[i], points[j], ranges))
		}
	}
	return m, nil
}
