// Package stopping implements the termination criteria polled after every
// generation of an evolutionary run. Each criterion is a small state machine
// that switches from active to met and stays met until Reset.
package stopping

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"

	"github.com/neurofit/optimizer/pkg/multiobjective/util"
)

var (
	// ErrMissingStatistic is returned by Check when a required statistic was
	// not provided.
	ErrMissingStatistic = errors.New("missing statistic")
	// ErrIncompatibleStatistic is returned by Check when a statistic does not
	// have the expected shape.
	ErrIncompatibleStatistic = errors.New("incompatible statistic")
	// ErrInvalidParameter is returned by constructors for out of range
	// parameters.
	ErrInvalidParameter = errors.New("invalid criterion parameter")
)

// Criterion is a stopping criterion.
type Criterion interface {
	Name() string
	// Requires lists the statistics Check consumes.
	Requires() []Statistic
	// Check updates the criterion with the statistics of one generation.
	Check(State) error
	// Met reports whether the criterion was met since the last Reset.
	Met() bool
	// Reset clears the met flag. History buffers are kept.
	Reset()
}

type criterion struct {
	met bool
}

func (c *criterion) Met() bool { return c.met }

func (c *criterion) Reset() { c.met = false }

func checkRequired(c Criterion, s State) error {
	for _, st := range c.Requires() {
		if !s.Has(st) {
			return fmt.Errorf("%w: %s requires %q", ErrMissingStatistic, c.Name(), st)
		}
		if st == StatFitness && len(s.Fitness) == 0 {
			return fmt.Errorf("%w: %s requires a non-empty %q", ErrMissingStatistic, c.Name(), st)
		}
	}
	return nil
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParameter, name, v)
	}
	return nil
}

// MaxGeneration is met once the generation number exceeds MaxGen.
type MaxGeneration struct {
	criterion
	MaxGen int
}

func NewMaxGeneration(maxGen int) *MaxGeneration {
	return &MaxGeneration{MaxGen: maxGen}
}

func (c *MaxGeneration) Name() string { return "MaxGeneration" }

func (c *MaxGeneration) Requires() []Statistic { return []Statistic{StatGeneration} }

func (c *MaxGeneration) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if s.Generation > c.MaxGen {
		c.met = true
	}
	return nil
}

func stagnationIter(gen, problemSize, lambda int) int {
	return int(math.Ceil(0.2*float64(gen) + 120 + 30.0*float64(problemSize)/float64(lambda)))
}

// Stagnation is met when neither the best nor the median fitness improved:
// the median of the last 20 values of both histories is not lower than the
// median of the 20 values starting stagnationIter generations back.
type Stagnation struct {
	criterion
	lambda      int
	problemSize int

	best   []float64
	median []float64
}

func NewStagnation(lambda, problemSize int) (*Stagnation, error) {
	if err := errors.Join(positive("lambda", lambda), positive("problem size", problemSize)); err != nil {
		return nil, err
	}
	return &Stagnation{lambda: lambda, problemSize: problemSize}, nil
}

func (c *Stagnation) Name() string { return "Stagnation" }

func (c *Stagnation) Requires() []Statistic { return []Statistic{StatGeneration, StatFitness} }

func (c *Stagnation) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	fitness := util.SortedCopy(s.Fitness)

	// Avoid duplicates when a run is restarted.
	if len(c.best) < s.Generation {
		c.best = append(c.best, fitness[0])
		c.median = append(c.median, fitness[medianIndex(len(fitness))])
	}

	iter := stagnationIter(s.Generation, c.problemSize, c.lambda)
	if len(c.best) <= iter || len(c.median) <= iter {
		return nil
	}
	if util.Median(util.Tail(c.best, 20)) >= util.Median(window(c.best, iter)) &&
		util.Median(util.Tail(c.median, 20)) >= util.Median(window(c.median, iter)) {
		c.met = true
	}
	return nil
}

// medianIndex rounds half to even.
func medianIndex(n int) int {
	return int(math.RoundToEven(float64(n) / 2.0))
}

// window returns the 20 values starting iter elements before the end of x.
func window(x []float64, iter int) []float64 {
	start := len(x) - iter
	return x[start:min(start+20, len(x))]
}

// StagnationV2 is met when the best fitness improved by less than Threshold
// over the last 100 generations and its spread over the last 20 generations
// is below StdThreshold times the latest best value.
type StagnationV2 struct {
	criterion
	lambda       int
	problemSize  int
	Threshold    float64
	StdThreshold float64

	best []float64
}

func NewStagnationV2(lambda, problemSize int, threshold, stdThreshold float64) (*StagnationV2, error) {
	if err := errors.Join(positive("lambda", lambda), positive("problem size", problemSize)); err != nil {
		return nil, err
	}
	return &StagnationV2{
		lambda:       lambda,
		problemSize:  problemSize,
		Threshold:    threshold,
		StdThreshold: stdThreshold,
	}, nil
}

func (c *StagnationV2) Name() string { return "StagnationV2" }

func (c *StagnationV2) Requires() []Statistic { return []Statistic{StatGeneration, StatFitness} }

func (c *StagnationV2) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if len(c.best) < s.Generation {
		c.best = append(c.best, floats.Min(s.Fitness))
	}

	iter := stagnationIter(s.Generation, c.problemSize, c.lambda)
	if len(c.best) <= iter {
		return nil
	}
	recent := util.Tail(c.best, 20)
	n := len(c.best)
	improved := util.Median(recent)*(1+c.Threshold) > util.Median(c.best[n-120:n-100])
	quiet := stat.PopStdDev(recent, nil) < c.StdThreshold*c.best[n-1]
	if improved && quiet {
		c.met = true
	}
	return nil
}

// ToleranceHistFun is met when the range of the best fitness values over a
// full rolling window falls below 1e-12.
type ToleranceHistFun struct {
	criterion
	maxLen int
	mins   []float64
}

const tolHistFun = 1e-12

func NewToleranceHistFun(lambda, problemSize int) (*ToleranceHistFun, error) {
	if err := errors.Join(positive("lambda", lambda), positive("problem size", problemSize)); err != nil {
		return nil, err
	}
	return &ToleranceHistFun{
		maxLen: 10 + int(math.Ceil(30.0*float64(problemSize)/float64(lambda))),
	}, nil
}

func (c *ToleranceHistFun) Name() string { return "ToleranceHistFun" }

func (c *ToleranceHistFun) Requires() []Statistic { return []Statistic{StatFitness} }

// WindowSize returns the length of the rolling window.
func (c *ToleranceHistFun) WindowSize() int { return c.maxLen }

func (c *ToleranceHistFun) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	c.mins = append(c.mins, floats.Min(s.Fitness))
	if len(c.mins) > c.maxLen {
		c.mins = c.mins[len(c.mins)-c.maxLen:]
	}

	if len(c.mins) == c.maxLen && floats.Max(c.mins)-floats.Min(c.mins) < tolHistFun {
		c.met = true
	}
	return nil
}

// EqualFunctionValues is met when, in more than a third of the last
// problemSize generations, the best and the k-th best fitness were equal
// within a relative tolerance of 1e-6.
type EqualFunctionValues struct {
	criterion
	problemSize int
	equalVals   float64
	k           int

	equal []float64
}

func NewEqualFunctionValues(lambda, problemSize int) (*EqualFunctionValues, error) {
	if err := errors.Join(positive("lambda", lambda), positive("problem size", problemSize)); err != nil {
		return nil, err
	}
	return &EqualFunctionValues{
		problemSize: problemSize,
		equalVals:   float64(problemSize) / 3.0,
		k:           int(math.Ceil(0.1 + float64(lambda)/4.0)),
	}, nil
}

func (c *EqualFunctionValues) Name() string { return "EqualFunctionValues" }

func (c *EqualFunctionValues) Requires() []Statistic { return []Statistic{StatGeneration, StatFitness} }

func (c *EqualFunctionValues) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	fitness := util.SortedCopy(s.Fitness)
	kth := fitness[max(len(fitness)-c.k, 0)]

	if scalar.EqualWithinAbsOrRel(fitness[0], kth, 0, 1e-6) {
		c.equal = append(c.equal, 1)
	} else {
		c.equal = append(c.equal, 0)
	}

	if s.Generation > c.problemSize && floats.Sum(util.Tail(c.equal, c.problemSize)) > c.equalVals {
		c.met = true
	}
	return nil
}
