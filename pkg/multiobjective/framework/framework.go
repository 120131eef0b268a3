package framework

import (
	"math"
	"math/rand/v2"
)

// Problem describes the contract a specific multi-objective problem needs to implement.
type Problem interface {
	Name() string

	// Sense tells whether the objective values are minimized or maximized.
	Sense() Sense
	ObjectiveFuncs() []ObjectiveFunc
	Bounds() []Bounds

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(int) []ObjectiveSpacePoint
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
type Algorithm interface {
	Name() string
}

// ObjectiveFunc defines the interface for objective functions
type ObjectiveFunc func([]float64) float64

type Bounds struct {
	L float64
	H float64
}

// RandomVariables draws a decision vector uniformly inside the bounds.
func RandomVariables(rng *rand.Rand, b []Bounds) []float64 {
	vars := make([]float64, len(b))
	for j := range b {
		vars[j] = b[j].L + rng.Float64()*(b[j].H-b[j].L)
	}
	return vars
}

// Evaluate calculates the objective values of the decision vector.
func Evaluate(funcs []ObjectiveFunc, vars []float64) []float64 {
	objs := make([]float64, len(funcs))
	for i, f := range funcs {
		objs[i] = f(vars)
	}
	return objs
}

// Crossover performs a bounded SBX (Simulated Binary Crossover) with
// distribution index eta. The parents are not modified.
func Crossover(rng *rand.Rand, p1, p2 []float64, eta float64, b []Bounds) ([]float64, []float64) {
	child1 := make([]float64, len(p1))
	child2 := make([]float64, len(p2))
	exp := 1.0 / (eta + 1.0)

	for i := range p1 {
		beta := 0.0
		if u := rng.Float64(); u <= 0.5 {
			beta = math.Pow(2*u, exp)
		} else {
			beta = math.Pow(1.0/(2*(1.0-u)), exp)
		}

		child1[i] = 0.5 * ((1+beta)*p1[i] + (1-beta)*p2[i])
		child2[i] = 0.5 * ((1-beta)*p1[i] + (1+beta)*p2[i])

		// Bound checking
		child1[i] = clamp(child1[i], b[i])
		child2[i] = clamp(child2[i], b[i])
	}

	return child1, child2
}

// Mutate performs polynomial mutation in place. Every gene mutates with
// probability rate.
func Mutate(rng *rand.Rand, vars []float64, eta, rate float64, b []Bounds) {
	exp := 1.0 / (eta + 1.0)
	for i := range vars {
		if rng.Float64() < rate {
			delta := 0.0
			if u := rng.Float64(); u <= 0.5 {
				delta = math.Pow(2*u, exp) - 1
			} else {
				delta = 1 - math.Pow(2*(1-u), exp)
			}

			vars[i] += delta * (b[i].H - b[i].L)
			vars[i] = clamp(vars[i], b[i])
		}
	}
}

func clamp(v float64, b Bounds) float64 {
	return math.Max(b.L, math.Min(b.H, v))
}
