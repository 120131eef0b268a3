package multiobjective

import (
	"errors"
	"fmt"
	"math"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

// FuncProblem adapts externally computed objective functions, such as a
// simulator call, to framework.Problem.
type FuncProblem struct {
	name   string
	sense  framework.Sense
	bounds []framework.Bounds
	funcs  []framework.ObjectiveFunc
}

var _ framework.Problem = &FuncProblem{}

func NewFuncProblem(name string, sense framework.Sense, bounds []framework.Bounds, funcs ...framework.ObjectiveFunc) (*FuncProblem, error) {
	var errs []error
	if len(bounds) == 0 {
		errs = append(errs, errors.New("no decision variables"))
	}
	for i, b := range bounds {
		if math.IsNaN(b.L) || math.IsNaN(b.H) || math.IsInf(b.L, 0) || math.IsInf(b.H, 0) || b.L > b.H {
			errs = append(errs, fmt.Errorf("variable %d: invalid bounds [%v, %v]", i, b.L, b.H))
		}
	}
	if len(funcs) == 0 {
		errs = append(errs, errors.New("no objective functions"))
	}
	for i, f := range funcs {
		if f == nil {
			errs = append(errs, fmt.Errorf("objective %d: nil function", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("problem %q: %w", name, err)
	}

	return &FuncProblem{
		name:   name,
		sense:  sense,
		bounds: append([]framework.Bounds(nil), bounds...),
		funcs:  append([]framework.ObjectiveFunc(nil), funcs...),
	}, nil
}

func (p *FuncProblem) Name() string {
	return p.name
}

func (p *FuncProblem) Sense() framework.Sense {
	return p.sense
}

func (p *FuncProblem) Bounds() []framework.Bounds {
	return p.bounds
}

func (p *FuncProblem) ObjectiveFuncs() []framework.ObjectiveFunc {
	return p.funcs
}

// TrueParetoFront is unknown for externally computed objectives.
func (p *FuncProblem) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return nil
}
