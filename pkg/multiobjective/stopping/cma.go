package stopping

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	tolX          = 1e-12
	tolUpSigma    = 1e20
	conditionCov  = 1e14
	noEffectAxis  = 0.1
	noEffectCoord = 0.2
)

// CovarianceStatistics are the quantities derived from the eigen
// decomposition of a CMA-ES covariance matrix.
type CovarianceStatistics struct {
	// DiagD holds the square roots of the eigenvalues in ascending order.
	DiagD []float64
	// B holds the matching eigenvectors as columns.
	B *mat.Dense
	// Cond is the ratio of the largest to the smallest eigenvalue, that is
	// the square of DiagD[last] / DiagD[0].
	Cond float64
}

// CovarianceStats decomposes the covariance matrix c.
func CovarianceStats(c mat.Symmetric) (CovarianceStatistics, error) {
	n := c.SymmetricDim()
	if n == 0 {
		return CovarianceStatistics{}, fmt.Errorf("%w: empty covariance matrix", ErrIncompatibleStatistic)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(c, true); !ok {
		return CovarianceStatistics{}, errors.New("eigen decomposition of the covariance matrix failed")
	}
	values := eig.Values(nil)

	// The condition number is taken on the eigenvalues, before the square
	// root.
	cond := math.Inf(1)
	if values[0] > 0 {
		cond = values[n-1] / values[0]
	}

	diagD := make([]float64, n)
	for i, v := range values {
		// Round-off can leave tiny negative eigenvalues.
		diagD[i] = math.Sqrt(math.Max(v, 0))
	}
	b := mat.NewDense(n, n, nil)
	eig.VectorsTo(b)
	return CovarianceStatistics{DiagD: diagD, B: b, Cond: cond}, nil
}

func squareOf(name string, m mat.Matrix, n int) error {
	r, c := m.Dims()
	if r != n || c != n {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrIncompatibleStatistic, name, r, c, n, n)
	}
	return nil
}

// ToleranceX is met when every component of the evolution path and every
// standard deviation of the covariance diagonal is below 1e-12.
type ToleranceX struct {
	criterion
}

func NewToleranceX() *ToleranceX { return &ToleranceX{} }

func (c *ToleranceX) Name() string { return "ToleranceX" }

func (c *ToleranceX) Requires() []Statistic { return []Statistic{StatPC, StatC} }

func (c *ToleranceX) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if err := squareOf("C", s.C, len(s.PC)); err != nil {
		return err
	}
	for i, pc := range s.PC {
		if pc >= tolX || math.Sqrt(s.C.At(i, i)) >= tolX {
			return nil
		}
	}
	c.met = true
	return nil
}

// ToleranceUpSigma is met when the step size grew far beyond its initial
// value relative to the largest principal standard deviation.
type ToleranceUpSigma struct {
	criterion
	sigma0 float64
}

func NewToleranceUpSigma(sigma0 float64) (*ToleranceUpSigma, error) {
	if !(sigma0 > 0) || math.IsInf(sigma0, 1) {
		return nil, fmt.Errorf("%w: initial sigma must be positive and finite, got %v", ErrInvalidParameter, sigma0)
	}
	return &ToleranceUpSigma{sigma0: sigma0}, nil
}

func (c *ToleranceUpSigma) Name() string { return "ToleranceUpSigma" }

func (c *ToleranceUpSigma) Requires() []Statistic { return []Statistic{StatSigma, StatDiagD} }

func (c *ToleranceUpSigma) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if len(s.DiagD) == 0 {
		return fmt.Errorf("%w: %s requires a non-empty %q", ErrMissingStatistic, c.Name(), StatDiagD)
	}
	last := s.DiagD[len(s.DiagD)-1]
	if s.Sigma/c.sigma0 > last*last*tolUpSigma {
		c.met = true
	}
	return nil
}

// ConditionCov is met when the condition number of the covariance matrix
// exceeds 1e14.
type ConditionCov struct {
	criterion
}

func NewConditionCov() *ConditionCov { return &ConditionCov{} }

func (c *ConditionCov) Name() string { return "ConditionCov" }

func (c *ConditionCov) Requires() []Statistic { return []Statistic{StatCond} }

func (c *ConditionCov) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if s.Cond > conditionCov {
		c.met = true
	}
	return nil
}

// NoEffectAxis is met when a step of a tenth of a standard deviation along
// one principal axis leaves the centroid unchanged in floating point. The
// axis cycles with the generation number.
type NoEffectAxis struct {
	criterion
	problemSize int
}

func NewNoEffectAxis(problemSize int) (*NoEffectAxis, error) {
	if err := positive("problem size", problemSize); err != nil {
		return nil, err
	}
	return &NoEffectAxis{problemSize: problemSize}, nil
}

func (c *NoEffectAxis) Name() string { return "NoEffectAxis" }

func (c *NoEffectAxis) Requires() []Statistic {
	return []Statistic{StatGeneration, StatCentroid, StatSigma, StatDiagD, StatB}
}

func (c *NoEffectAxis) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	n := c.problemSize
	if len(s.Centroid) != n || len(s.DiagD) != n {
		return fmt.Errorf("%w: centroid and diagD must have %d entries, got %d and %d",
			ErrIncompatibleStatistic, n, len(s.Centroid), len(s.DiagD))
	}
	if err := squareOf("B", s.B, n); err != nil {
		return err
	}

	index := s.Generation % n
	axis := 0
	if index != 0 {
		axis = n - index
	}
	step := noEffectAxis * s.Sigma * s.DiagD[axis]
	for k, x := range s.Centroid {
		if x != x+step*s.B.At(k, axis) {
			return nil
		}
	}
	c.met = true
	return nil
}

// NoEffectCoor is met when a step of a fifth of the variance along any single
// coordinate leaves that centroid coordinate unchanged in floating point.
type NoEffectCoor struct {
	criterion
}

func NewNoEffectCoor() *NoEffectCoor { return &NoEffectCoor{} }

func (c *NoEffectCoor) Name() string { return "NoEffectCoor" }

func (c *NoEffectCoor) Requires() []Statistic { return []Statistic{StatCentroid, StatSigma, StatC} }

func (c *NoEffectCoor) Check(s State) error {
	if err := checkRequired(c, s); err != nil {
		return err
	}
	if err := squareOf("C", s.C, len(s.Centroid)); err != nil {
		return err
	}
	for k, x := range s.Centroid {
		if x == x+noEffectCoord*s.Sigma*s.C.At(k, k) {
			c.met = true
			return nil
		}
	}
	return nil
}

// NewCMABank returns the criteria a single-objective CMA-ES run polls:
// MaxGeneration, Stagnation, ToleranceHistFun, EqualFunctionValues,
// NoEffectAxis, ToleranceUpSigma, ToleranceX, ConditionCov and NoEffectCoor,
// in that order.
// A maxGen of zero or less defaults to 100 + 50 (n+3)^2 / sqrt(lambda).
func NewCMABank(lambda, problemSize int, sigma0 float64, maxGen int) (*Bank, error) {
	if err := errors.Join(positive("lambda", lambda), positive("problem size", problemSize)); err != nil {
		return nil, err
	}
	if maxGen <= 0 {
		n := float64(problemSize + 3)
		maxGen = int(math.Floor(100 + 50*n*n/math.Sqrt(float64(lambda))))
	}

	histFun, err := NewToleranceHistFun(lambda, problemSize)
	if err != nil {
		return nil, err
	}
	equal, err := NewEqualFunctionValues(lambda, problemSize)
	if err != nil {
		return nil, err
	}
	upSigma, err := NewToleranceUpSigma(sigma0)
	if err != nil {
		return nil, err
	}
	stagnation, err := NewStagnation(lambda, problemSize)
	if err != nil {
		return nil, err
	}
	axis, err := NewNoEffectAxis(problemSize)
	if err != nil {
		return nil, err
	}

	return NewBank(
		NewMaxGeneration(maxGen),
		stagnation,
		histFun,
		equal,
		axis,
		upSigma,
		NewToleranceX(),
		NewConditionCov(),
		NewNoEffectCoor(),
	), nil
}
