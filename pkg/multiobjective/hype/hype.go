// Package hype implements the HypE hypervolume-based fitness of Bader and
// Zitzler, in its exact form and as a Monte-Carlo estimate. Points are
// objective vectors oriented for minimization; bounds is the reference point
// every point is expected to dominate.
package hype

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/neurofit/optimizer/pkg/multiobjective/indicator"
)

// Mode selects the algorithm used by Estimate.
type Mode int

const (
	// Exact runs the recursive dimension sweep.
	Exact Mode = iota
	// Sampled runs the Monte-Carlo approximation.
	Sampled
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Sampled:
		return "sampled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrInvalidInput is returned for inconsistent points, bounds or options.
var ErrInvalidInput = errors.New("invalid hypervolume input")

// Options configures Estimate.
type Options struct {
	// K is the HypE parameter. A negative value means the number of points.
	K    int
	Mode Mode
	// Samples is the number of Monte-Carlo samples, only used in Sampled mode.
	Samples int
	// Rand is the sample source, only used in Sampled mode.
	Rand *rand.Rand
}

// Estimate returns one HypE score per point, in the order of points.
func Estimate(points [][]float64, bounds []float64, opts Options) ([]float64, error) {
	switch opts.Mode {
	case Exact:
		return IndicatorExact(points, bounds, opts.K)
	case Sampled:
		return IndicatorSampled(points, bounds, opts.K, opts.Samples, opts.Rand)
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrInvalidInput, opts.Mode)
	}
}

// IndicatorExact computes the HypE fitness of every point by a recursive
// sweep over the objectives.
func IndicatorExact(points [][]float64, bounds []float64, k int) ([]float64, error) {
	if err := validate(points, bounds); err != nil {
		return nil, err
	}
	ps := len(points)
	if k < 0 {
		k = ps
	}

	pvec := make([]int, ps)
	for i := range pvec {
		pvec[i] = i
	}
	return hypesub(ps, points, len(bounds), bounds, pvec, weights(k, ps, k), k), nil
}

// IndicatorSampled approximates IndicatorExact with samples points drawn
// uniformly inside the box spanned by the component-wise minimum of points
// and bounds.
func IndicatorSampled(points [][]float64, bounds []float64, k, samples int, rng *rand.Rand) ([]float64, error) {
	if err := validate(points, bounds); err != nil {
		return nil, err
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidInput, samples)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}
	nrP := len(points)
	dim := len(bounds)
	if k < 0 {
		k = nrP
	}

	box, err := indicator.NewBox(points)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	lower := box.Min

	// Padded with zeros for ranks beyond k.
	alpha := append(weights(k, nrP, k), make([]float64, nrP)...)

	sample := make([]float64, dim)
	dominators := make([]int, 0, nrP)
	f := make([]float64, nrP)
	for s := 0; s < samples; s++ {
		for d := range sample {
			sample[d] = lower[d] + (bounds[d]-lower[d])*rng.Float64()
		}

		dominators = dominators[:0]
		for j, p := range points {
			if weaklyDominates(p, sample) {
				dominators = append(dominators, j)
			}
		}
		if len(dominators) == 0 {
			continue
		}
		w := alpha[len(dominators)-1]
		for _, j := range dominators {
			f[j] += w
		}
	}

	volume := floats.Prod(floats.SubTo(make([]float64, dim), bounds, lower))
	for j := range f {
		f[j] = f[j] * volume / float64(samples)
	}
	return f, nil
}

// hypesub accumulates the contribution of the points in a over dimensions
// 1..actDim into a vector of length la indexed by pvec.
func hypesub(la int, a [][]float64, actDim int, bounds []float64, pvec []int, alpha []float64, k int) []float64 {
	h := make([]float64, la)

	col := make([]float64, len(a))
	for i, p := range a {
		col[i] = p[actDim-1]
	}
	order := make([]int, len(a))
	floats.ArgsortStable(col, order)

	s := make([][]float64, len(a))
	sp := make([]int, len(a))
	for i, idx := range order {
		s[i] = a[idx]
		sp[i] = pvec[idx]
	}

	for i := 1; i <= len(s); i++ {
		var extrusion float64
		if i < len(s) {
			extrusion = s[i][actDim-1] - s[i-1][actDim-1]
		} else {
			extrusion = bounds[actDim-1] - s[i-1][actDim-1]
		}

		if actDim == 1 {
			if i > k {
				break
			}
			if alpha[i-1] >= 0 {
				for _, p := range sp[:i] {
					h[p] += extrusion * alpha[i-1]
				}
			}
		} else if extrusion > 0 {
			sub := hypesub(la, s[:i], actDim-1, bounds, sp[:i], alpha, k)
			floats.AddScaled(h, extrusion, sub)
		}
	}

	return h
}

// weights returns the first n HypE coefficients
// alpha[i-1] = prod_{j=1}^{i-1} (k-j)/(ps-j)/i.
func weights(n, ps, k int) []float64 {
	alpha := make([]float64, n)
	for i := 1; i <= n; i++ {
		prod := 1.0
		for j := 1; j < i; j++ {
			prod *= float64(k-j) / float64(ps-j) / float64(i)
		}
		alpha[i-1] = prod
	}
	return alpha
}

func weaklyDominates(p, sample []float64) bool {
	for d := range p {
		if sample[d] < p[d] {
			return false
		}
	}
	return true
}

func validate(points [][]float64, bounds []float64) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: no points", ErrInvalidInput)
	}
	if len(bounds) == 0 {
		return fmt.Errorf("%w: empty reference point", ErrInvalidInput)
	}
	for i, p := range points {
		if err := indicator.Validate(p, len(bounds)); err != nil {
			return fmt.Errorf("%w: point %d: %w", ErrInvalidInput, i, err)
		}
	}
	for d, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("%w: reference point coordinate %d is %v", ErrInvalidInput, d, b)
		}
	}
	return nil
}
