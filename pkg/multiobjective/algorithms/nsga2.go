package algorithms

import (
	"fmt"
	"math"
	"sort"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

// CrowdingDistance calculates the crowding distance of every point of a
// front. Boundary points of each objective get +Inf.
func CrowdingDistance(front [][]float64) []float64 {
	distance := make([]float64, len(front))
	if len(front) <= 2 {
		for i := range distance {
			distance[i] = math.Inf(1)
		}
		return distance
	}

	order := make([]int, len(front))
	for m := range front[0] {
		for i := range order {
			order[i] = i
		}
		// Sort by each objective
		sort.SliceStable(order, func(i, j int) bool {
			return front[order[i]][m] < front[order[j]][m]
		})

		first, last := order[0], order[len(order)-1]
		distance[first] = math.Inf(1)
		distance[last] = math.Inf(1)

		objectiveRange := front[last][m] - front[first][m]
		if objectiveRange == 0 {
			continue
		}
		for i := 1; i < len(order)-1; i++ {
			distance[order[i]] += (front[order[i+1]][m] - front[order[i-1]][m]) / objectiveRange
		}
	}
	return distance
}

// SelectByCrowding is the NSGA-II survival: whole non-dominated fronts are
// taken while they fit and the front that does not fit is cut by decreasing
// crowding distance. The chosen individuals carry their rank and crowding
// distance.
func SelectByCrowding(population []framework.Individual, mu int, sense framework.Sense) (chosen, rejected []framework.Individual, err error) {
	if mu < 0 {
		return nil, nil, fmt.Errorf("%w: mu must not be negative, got %d", ErrInvalidConfig, mu)
	}

	oriented := make([]framework.Individual, len(population))
	for i := range population {
		oriented[i] = population[i].Clone()
		oriented[i].Objectives = sense.Orient(population[i].Objectives)
	}
	fronts := framework.NonDominatedSort(oriented)

	for _, front := range fronts {
		distance := CrowdingDistance(frontObjectives(oriented, front))
		for i, idx := range front {
			oriented[idx].Distance = distance[i]
		}

		switch room := mu - len(chosen); {
		case room >= len(front):
			chosen = appendIndividuals(chosen, population, oriented, front)
		case room > 0:
			split := append([]int(nil), front...)
			sort.SliceStable(split, func(i, j int) bool {
				return oriented[split[i]].Distance > oriented[split[j]].Distance
			})
			chosen = appendIndividuals(chosen, population, oriented, split[:room])
			rejected = appendIndividuals(rejected, population, oriented, split[room:])
		default:
			rejected = appendIndividuals(rejected, population, oriented, front)
		}
	}
	return chosen, rejected, nil
}
