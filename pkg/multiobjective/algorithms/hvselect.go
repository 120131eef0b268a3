package algorithms

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
	"github.com/neurofit/optimizer/pkg/multiobjective/hype"
)

// MaxHypervolumeObjectives is the largest number of objectives the
// hypervolume truncation works with. Above it only the objectives with the
// widest range of values are used.
const MaxHypervolumeObjectives = 23

// SelectByHypervolume keeps mu individuals of population. Whole
// non-dominated fronts are taken while they fit. The front that does not fit
// is reduced one individual at a time, dropping the one with the lowest HypE
// value, with the reference point one unit beyond the worst value of the
// front in every objective. The chosen individuals are returned first,
// followed by the rejected ones.
func SelectByHypervolume(population []framework.Individual, mu int, sense framework.Sense, opts hype.Options) (chosen, rejected []framework.Individual, err error) {
	if mu >= len(population) {
		return clonePopulation(population), nil, nil
	}
	if mu < 0 {
		return nil, nil, fmt.Errorf("%w: mu must not be negative, got %d", hype.ErrInvalidInput, mu)
	}

	oriented := make([]framework.Individual, len(population))
	for i := range population {
		oriented[i] = population[i].Clone()
		oriented[i].Objectives = sense.Orient(population[i].Objectives)
	}
	fronts := framework.NonDominatedSort(oriented)

	var split []int
	for _, front := range fronts {
		switch {
		case split == nil && len(chosen)+len(front) <= mu:
			chosen = appendIndividuals(chosen, population, oriented, front)
		case split == nil && len(chosen) < mu:
			split = front
		default:
			rejected = appendIndividuals(rejected, population, oriented, front)
		}
	}
	if split == nil {
		return chosen, rejected, nil
	}

	keep, err := truncateFront(frontObjectives(oriented, split), mu-len(chosen), opts)
	if err != nil {
		return nil, nil, err
	}
	kept := make(map[int]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for i, idx := range split {
		if kept[i] {
			chosen = appendIndividuals(chosen, population, oriented, []int{idx})
		} else {
			rejected = appendIndividuals(rejected, population, oriented, []int{idx})
		}
	}
	return chosen, rejected, nil
}

// truncateFront returns the indices of the n points of front that survive
// greedy HypE truncation, in their original order.
func truncateFront(front [][]float64, n int, opts hype.Options) ([]int, error) {
	front, ref := referenceProblem(front)
	alive := make([]int, len(front))
	for i := range alive {
		alive[i] = i
	}
	for len(alive) > n {
		points := make([][]float64, len(alive))
		for i, idx := range alive {
			points[i] = front[idx]
		}

		opts.K = len(alive) - n
		values, err := hype.Estimate(points, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("hypervolume of the splitting front: %w", err)
		}
		worst := floats.MinIdx(values)
		alive = append(alive[:worst], alive[worst+1:]...)
	}
	return alive, nil
}

// referenceProblem returns the points restricted to at most
// MaxHypervolumeObjectives objectives and the matching reference point.
func referenceProblem(points [][]float64) ([][]float64, []float64) {
	m := len(points[0])
	lo := append([]float64(nil), points[0]...)
	hi := append([]float64(nil), points[0]...)
	for _, p := range points[1:] {
		for k, v := range p {
			lo[k] = min(lo[k], v)
			hi[k] = max(hi[k], v)
		}
	}

	dims := make([]int, m)
	for k := range dims {
		dims[k] = k
	}
	if m > MaxHypervolumeObjectives {
		sort.SliceStable(dims, func(i, j int) bool {
			return hi[dims[i]]-lo[dims[i]] > hi[dims[j]]-lo[dims[j]]
		})
		dims = dims[:MaxHypervolumeObjectives]
	}

	ref := make([]float64, len(dims))
	for i, k := range dims {
		ref[i] = hi[k] + 1
	}
	reduced := make([][]float64, len(points))
	for i, p := range points {
		reduced[i] = make([]float64, len(dims))
		for j, k := range dims {
			reduced[i][j] = p[k]
		}
	}
	return reduced, ref
}

func frontObjectives(oriented []framework.Individual, front []int) [][]float64 {
	points := make([][]float64, len(front))
	for i, idx := range front {
		points[i] = oriented[idx].Objectives
	}
	return points
}

// appendIndividuals appends the original individuals at indices, carrying the
// rank and crowding distance computed on the oriented copies.
func appendIndividuals(dst, population, oriented []framework.Individual, indices []int) []framework.Individual {
	for _, idx := range indices {
		ind := population[idx].Clone()
		ind.Rank = oriented[idx].Rank
		ind.Distance = oriented[idx].Distance
		dst = append(dst, ind)
	}
	return dst
}

func clonePopulation(population []framework.Individual) []framework.Individual {
	out := make([]framework.Individual, len(population))
	for i := range population {
		out[i] = population[i].Clone()
	}
	return out
}
