package benchmarks

import (
	"math"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. Its Pareto front is convex. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return "ZDT1"
}

func (p *ZDT1) Sense() framework.Sense {
	return framework.Minimize
}

func (p *ZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		first, p.f2,
	}
}

func (p *ZDT1) f2(x []float64) float64 {
	g := zdtG(x)
	return g * (1.0 - math.Sqrt(x[0]/g))
}

func (p *ZDT1) Bounds() []framework.Bounds {
	return unitBounds(p.numVars)
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return front(numPoints, func(x float64) float64 {
		return 1.0 - math.Sqrt(x)
	})
}

// first is the first objective of every ZDT problem.
func first(x []float64) float64 {
	return x[0]
}

// zdtG is the distance function shared by ZDT1 and ZDT2. It equals 1 on the
// Pareto front.
func zdtG(x []float64) float64 {
	g := 1.0
	if len(x) < 2 {
		return g
	}
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return g
}

func unitBounds(n int) []framework.Bounds {
	b := make([]framework.Bounds, n)
	for i := range n {
		b[i] = framework.Bounds{
			L: 0.0,
			H: 1.0,
		}
	}
	return b
}

func front(numPoints int, f2 func(float64) float64) []framework.ObjectiveSpacePoint {
	if numPoints <= 0 {
		return nil
	}
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := 0.0
		if numPoints > 1 {
			x = float64(i) / float64(numPoints-1)
		}
		points[i] = framework.ObjectiveSpacePoint{
			x, f2(x),
		}
	}
	return points
}
