package stopping

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Statistic names one input a criterion can consume.
type Statistic uint

const (
	StatGeneration Statistic = 1 << iota
	StatFitness
	StatCentroid
	StatSigma
	StatDiagD
	StatB
	StatC
	StatPC
	StatCond
)

var statisticNames = []struct {
	stat Statistic
	name string
}{
	{StatGeneration, "gen"},
	{StatFitness, "population"},
	{StatCentroid, "centroid"},
	{StatSigma, "sigma"},
	{StatDiagD, "diagD"},
	{StatB, "B"},
	{StatC, "C"},
	{StatPC, "pc"},
	{StatCond, "cond"},
}

func (s Statistic) String() string {
	var names []string
	for _, sn := range statisticNames {
		if s&sn.stat != 0 {
			names = append(names, sn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// State carries the statistics of one generation. Only the statistics set
// through the With methods are considered present.
type State struct {
	// Generation is the current generation number.
	Generation int
	// Fitness holds the reduced fitness of every individual of the
	// population. Lower is better.
	Fitness []float64

	// Centroid, Sigma, DiagD, B, C, PC and Cond come from a CMA-ES strategy.
	Centroid []float64
	Sigma    float64
	DiagD    []float64
	B        mat.Matrix
	C        mat.Matrix
	PC       []float64
	Cond     float64

	present Statistic
}

// Has reports whether stat was provided.
func (s State) Has(stat Statistic) bool {
	return s.present&stat == stat
}

func (s State) WithGeneration(gen int) State {
	s.Generation = gen
	s.present |= StatGeneration
	return s
}

func (s State) WithFitness(fitness []float64) State {
	s.Fitness = fitness
	s.present |= StatFitness
	return s
}

func (s State) WithCentroid(centroid []float64) State {
	s.Centroid = centroid
	s.present |= StatCentroid
	return s
}

func (s State) WithSigma(sigma float64) State {
	s.Sigma = sigma
	s.present |= StatSigma
	return s
}

func (s State) WithDiagD(diagD []float64) State {
	s.DiagD = diagD
	s.present |= StatDiagD
	return s
}

func (s State) WithB(b mat.Matrix) State {
	s.B = b
	s.present |= StatB
	return s
}

func (s State) WithC(c mat.Matrix) State {
	s.C = c
	s.present |= StatC
	return s
}

func (s State) WithPC(pc []float64) State {
	s.PC = pc
	s.present |= StatPC
	return s
}

func (s State) WithCond(cond float64) State {
	s.Cond = cond
	s.present |= StatCond
	return s
}

// WithCovariance sets DiagD, B and Cond from the decomposition of the
// covariance matrix.
func (s State) WithCovariance(cs CovarianceStatistics) State {
	return s.WithDiagD(cs.DiagD).WithB(cs.B).WithCond(cs.Cond)
}
