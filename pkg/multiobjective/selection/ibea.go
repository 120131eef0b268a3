// Package selection implements the IBEA (Indicator-Based Evolutionary
// Algorithm) selector of Zitzler and Kuenzli, following the PISA reference
// selector: epsilon-indicator fitness, environmental truncation and
// tournament mating selection.
package selection

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
	"github.com/neurofit/optimizer/pkg/multiobjective/indicator"
)

const (
	DefaultKappa          = 0.05
	DefaultTournamentSize = 4
)

// ErrInvalidArgument is returned for out of range selection parameters.
var ErrInvalidArgument = errors.New("invalid selection argument")

// FitnessOptions configures the fitness assignment.
type FitnessOptions struct {
	// Kappa scales the exponential normalization. Smaller values increase the
	// selection pressure towards strongly dominating individuals.
	Kappa float64
	// Sense is the optimization direction of the individuals' objectives.
	Sense framework.Sense
}

// Options configures Select.
type Options struct {
	FitnessOptions

	// Alpha is the archive size kept by environmental selection. Zero or
	// negative means the size of the population.
	Alpha int
	// TournamentSize is the number of contestants drawn per tournament.
	TournamentSize int
}

// FitnessComponents returns the N x N matrix whose entry (i, j) is
// exp(-I(x_i, x_j) / (kappa * c)), where I is the epsilon indicator and c the
// largest absolute indicator value. When every indicator value is zero the
// matrix is all ones.
func FitnessComponents(population []framework.Individual, opts FitnessOptions) (*mat.Dense, error) {
	if opts.Kappa <= 0 {
		return nil, fmt.Errorf("%w: kappa must be positive, got %v", ErrInvalidArgument, opts.Kappa)
	}

	indicators, err := indicator.Matrix(framework.ObjectiveMatrix(population, opts.Sense))
	if err != nil {
		return nil, err
	}

	c := 0.0
	r, cols := indicators.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			c = math.Max(c, math.Abs(indicators.At(i, j)))
		}
	}

	components := mat.NewDense(r, cols, nil)
	if c == 0 {
		// All individuals are indicator-equivalent.
		components.Apply(func(_, _ int, _ float64) float64 { return 1 }, indicators)
		return components, nil
	}
	scale := -1.0 / (opts.Kappa * c)
	components.Apply(func(_, _ int, v float64) float64 {
		return math.Exp(scale * v)
	}, indicators)
	return components, nil
}

// AssignFitness returns a copy of population with the Fitness field of every
// individual set to the IBEA fitness: the sum, over all other individuals x',
// of exp(-I(x', x) / (kappa * c)). Lower is better. The input is not modified.
func AssignFitness(population []framework.Individual, opts FitnessOptions) ([]framework.Individual, error) {
	components, err := FitnessComponents(population, opts)
	if err != nil {
		return nil, err
	}

	out := make([]framework.Individual, len(population))
	copy(out, population)
	for j := range out {
		sum := mat.Sum(components.ColView(j))
		out[j].Fitness = sum - components.At(j, j)
	}
	return out, nil
}

// EnvironmentalSelection returns the alpha individuals with the lowest
// fitness, in ascending fitness order. Individuals with equal fitness keep
// their relative order. Zero or negative alpha keeps the whole population.
func EnvironmentalSelection(population []framework.Individual, alpha int) []framework.Individual {
	sorted := make([]framework.Individual, len(population))
	copy(sorted, population)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness < sorted[j].Fitness
	})

	if alpha <= 0 || alpha > len(sorted) {
		alpha = len(sorted)
	}
	return sorted[:alpha]
}

// MatingSelection runs mu tournaments of tournamentSize contestants drawn
// uniformly with replacement and returns the winner of each. The winner is
// the contestant with the lowest fitness, the first drawn on ties.
func MatingSelection(population []framework.Individual, mu, tournamentSize int, rng *rand.Rand) ([]framework.Individual, error) {
	switch {
	case mu < 0:
		return nil, fmt.Errorf("%w: mu must not be negative, got %d", ErrInvalidArgument, mu)
	case tournamentSize < 1:
		return nil, fmt.Errorf("%w: tournament size must be positive, got %d", ErrInvalidArgument, tournamentSize)
	case mu > 0 && len(population) == 0:
		return nil, fmt.Errorf("%w: cannot select %d parents from an empty population", ErrInvalidArgument, mu)
	case rng == nil:
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidArgument)
	}

	parents := make([]framework.Individual, 0, mu)
	for i := 0; i < mu; i++ {
		winner := population[rng.IntN(len(population))]
		for j := 1; j < tournamentSize; j++ {
			contestant := population[rng.IntN(len(population))]
			if contestant.Fitness < winner.Fitness {
				winner = contestant
			}
		}
		parents = append(parents, winner)
	}
	return parents, nil
}

// Select assigns the IBEA fitness to population, truncates it to the archive
// size and draws mu parents from the archive. The archive is returned sorted
// by ascending fitness.
func Select(population []framework.Individual, mu int, opts Options, rng *rand.Rand) (archive, parents []framework.Individual, err error) {
	if opts.Kappa == 0 {
		opts.Kappa = DefaultKappa
	}
	if opts.TournamentSize == 0 {
		opts.TournamentSize = DefaultTournamentSize
	}

	scored, err := AssignFitness(population, opts.FitnessOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("assigning fitness: %w", err)
	}
	archive = EnvironmentalSelection(scored, opts.Alpha)

	parents, err = MatingSelection(archive, mu, opts.TournamentSize, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("mating selection: %w", err)
	}
	return archive, parents, nil
}
