package framework

// NonDominatedSort performs non-dominated sorting on the population and
// returns the fronts as indices into population. The Rank field of every
// individual is set to the index of its front. Objectives are compared for
// minimization.
func NonDominatedSort(population []Individual) [][]int {
	var fronts [][]int
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := 0; i < len(population); i++ {
		for j := 0; j < len(population); j++ {
			if i != j {
				if Dominates(population[i], population[j]) {
					dominated[i] = append(dominated[i], j)
				} else if Dominates(population[j], population[i]) {
					domCount[i]++
				}
			}
		}
	}

	// Find first front
	currentFront := []int{}
	for i := 0; i < len(population); i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, i)
		}
	}
	if len(currentFront) == 0 {
		return nil
	}
	fronts = append(fronts, currentFront)

	// Find subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		nextFront := []int{}
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		frontIndex++
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
	}

	return fronts
}

// Dominates checks if individual a dominates individual b
func Dominates(a, b Individual) bool {
	return DominatesPoint(a.Objectives, b.Objectives)
}

// DominatesPoint checks if objective vector a dominates b for minimization.
func DominatesPoint(a, b []float64) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}
