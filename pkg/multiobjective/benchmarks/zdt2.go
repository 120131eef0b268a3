package benchmarks

import (
	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

// ZDT2 is the non-convex counterpart of ZDT1.
type ZDT2 struct {
	numVars int
}

func NewZDT2(numVars int) *ZDT2 {
	return &ZDT2{numVars}
}

func (p *ZDT2) Name() string {
	return "ZDT2"
}

func (p *ZDT2) Sense() framework.Sense {
	return framework.Minimize
}

func (p *ZDT2) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		first, p.f2,
	}
}

func (p *ZDT2) f2(x []float64) float64 {
	g := zdtG(x)
	r := x[0] / g
	return g * (1.0 - r*r)
}

func (p *ZDT2) Bounds() []framework.Bounds {
	return unitBounds(p.numVars)
}

func (p *ZDT2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return front(numPoints, func(x float64) float64 {
		return 1.0 - x*x
	})
}
