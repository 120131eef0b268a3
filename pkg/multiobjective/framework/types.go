package framework

// Individual represents a solution in the population
type Individual struct {
	Variables  []float64
	Objectives []float64

	// Fitness is the indicator-based fitness assigned by the selector.
	// Lower is better.
	Fitness float64
	// Rank is the index of the non-dominated front the individual belongs to.
	Rank int
	// Distance is the crowding distance within its front.
	Distance float64
}

// Clone returns a deep copy of the individual.
func (ind Individual) Clone() Individual {
	c := ind
	c.Variables = append([]float64(nil), ind.Variables...)
	c.Objectives = append([]float64(nil), ind.Objectives...)
	return c
}

// Sense tells whether the objective values of a problem are to be minimized
// or maximized. The selection algorithms always minimize internally.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Orient returns a copy of objectives expressed for minimization.
func (s Sense) Orient(objectives []float64) []float64 {
	out := make([]float64, len(objectives))
	for i, v := range objectives {
		if s == Maximize {
			out[i] = -v
		} else {
			out[i] = v
		}
	}
	return out
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// ObjectiveMatrix returns the objective vectors of the population oriented
// for minimization, one row per individual.
func ObjectiveMatrix(population []Individual, sense Sense) [][]float64 {
	points := make([][]float64, len(population))
	for i := range population {
		points[i] = sense.Orient(population[i].Objectives)
	}
	return points
}
