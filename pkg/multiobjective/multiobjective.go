package multiobjective

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/neurofit/optimizer/apis/config/v1alpha1"
	"github.com/neurofit/optimizer/pkg/multiobjective/algorithms"
	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
	"github.com/neurofit/optimizer/pkg/multiobjective/hype"
	"github.com/neurofit/optimizer/pkg/multiobjective/indicator"
	"github.com/neurofit/optimizer/pkg/multiobjective/selection"
	"github.com/neurofit/optimizer/pkg/multiobjective/stopping"
)

// MultiObjective runs IBEA optimisations of a problem configured by
// IBEAArgs.
type MultiObjective struct {
	args    *v1alpha1.IBEAArgs
	problem framework.Problem
}

const (
	Name = "MultiObjective"
)

func New(ctx context.Context, args *v1alpha1.IBEAArgs, problem framework.Problem) (*MultiObjective, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info("creating instance of MultiObjective")

	if problem == nil {
		return nil, errors.New("nil problem")
	}
	defaulted := &v1alpha1.IBEAArgs{}
	if args != nil {
		*defaulted = *args
	}
	v1alpha1.SetDefaults_IBEAArgs(defaulted)
	if err := v1alpha1.ValidateIBEAArgs(defaulted); err != nil {
		return nil, err
	}
	logger.V(5).Info("MultiObjective called with args", "problem", problem.Name(),
		"offspringSize", *defaulted.OffspringSize, "truncation", defaulted.Truncation,
		"maxGenerations", *defaulted.Stopping.MaxGenerations, "criteria", defaulted.Stopping.Criteria)

	return &MultiObjective{
		args:    defaulted,
		problem: problem,
	}, nil
}

func (p *MultiObjective) Name() string {
	return Name
}

// Args returns the defaulted args of the optimisation.
func (p *MultiObjective) Args() *v1alpha1.IBEAArgs {
	return p.args
}

// Algorithm builds the IBEA driver described by the args. Every call returns
// a fresh driver with its own random source and stopping criteria.
func (p *MultiObjective) Algorithm() (*algorithms.IBEA, error) {
	args := p.args
	seed := *args.Seed

	a := algorithms.NewIBEA(p.problem, int(*args.Stopping.MaxGenerations), rand.New(rand.NewPCG(seed, seed)))
	a.OffspringSize = int(*args.OffspringSize)
	a.Mu = int(*args.Mu)
	a.Alpha = int(*args.Alpha)
	a.Kappa = *args.Kappa
	a.TournamentSize = int(*args.TournamentSize)
	a.Eta = *args.Eta
	a.CrossoverProb = *args.CrossoverProb
	a.MutationProb = *args.MutationProb
	a.GeneMutationProb = *args.GeneMutationProb
	a.Hypervolume = p.hypervolumeOptions(nil)
	switch args.Truncation {
	case v1alpha1.TruncationHypervolume:
		a.Truncation = algorithms.HypervolumeTruncation
	case v1alpha1.TruncationNSGA2:
		a.Truncation = algorithms.NSGA2Truncation
	}
	if args.HallOfFameSize != nil {
		a.HallOfFameSize = int(*args.HallOfFameSize)
	}

	criteria, err := p.criteria()
	if err != nil {
		return nil, err
	}
	a.Criteria = criteria
	return a, nil
}

func (p *MultiObjective) criteria() ([]stopping.Criterion, error) {
	lambda := int(*p.args.OffspringSize)
	n := len(p.problem.Bounds())
	stop := p.args.Stopping

	var criteria []stopping.Criterion
	for _, name := range stop.Criteria {
		var (
			c   stopping.Criterion
			err error
		)
		switch name {
		case v1alpha1.CriterionStagnation:
			c, err = stopping.NewStagnation(lambda, n)
		case v1alpha1.CriterionStagnationV2:
			c, err = stopping.NewStagnationV2(lambda, n, *stop.StagnationThreshold, *stop.StagnationStdThreshold)
		case v1alpha1.CriterionToleranceHistFun:
			c, err = stopping.NewToleranceHistFun(lambda, n)
		case v1alpha1.CriterionEqualFunctionValues:
			c, err = stopping.NewEqualFunctionValues(lambda, n)
		default:
			err = fmt.Errorf("unsupported criterion %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

func (p *MultiObjective) hypervolumeOptions(rng *rand.Rand) hype.Options {
	opts := hype.Options{K: -1, Mode: hype.Exact, Rand: rng}
	if p.args.Hypervolume.Mode == v1alpha1.HypervolumeSampled {
		opts.Mode = hype.Sampled
		opts.Samples = int(*p.args.Hypervolume.Samples)
	}
	return opts
}

// Run optimises the problem and reports the final parents.
func (p *MultiObjective) Run(ctx context.Context) (*v1alpha1.RunReport, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info(fmt.Sprintf("running the %s optimisation", p.Name()))

	alg, err := p.Algorithm()
	if err != nil {
		return nil, err
	}
	result, err := alg.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", alg.Name(), p.problem.Name(), err)
	}

	seed := *p.args.Seed
	solutions, err := p.solutions(logger, result.Parents, rand.New(rand.NewPCG(seed, ^seed)))
	if err != nil {
		return nil, err
	}
	return &v1alpha1.RunReport{
		Problem:     p.problem.Name(),
		Algorithm:   alg.Name(),
		Generation:  result.Generation,
		Evaluations: result.Evaluations,
		StoppedBy:   result.StoppedBy,
		Solutions:   solutions,
		ParetoFront: len(result.HallOfFame),
		Logbook:     logbook(result.Logbook),
	}, nil
}

func logbook(stats []algorithms.GenerationStats) []v1alpha1.GenerationRecord {
	records := make([]v1alpha1.GenerationRecord, len(stats))
	for i, s := range stats {
		records[i] = v1alpha1.GenerationRecord{
			Generation:  s.Generation,
			Evaluations: s.Evaluations,
			Avg:         s.Avg,
			Std:         s.Std,
			Min:         s.Min,
			Max:         s.Max,
		}
	}
	return records
}

// solutions ranks the individuals and scores them by epsilon-indicator
// fitness and HypE contribution. The reference point lies one unit beyond
// the worst value of every objective.
func (p *MultiObjective) solutions(logger logr.Logger, parents []framework.Individual, rng *rand.Rand) ([]v1alpha1.Solution, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	sense := p.problem.Sense()

	scored, err := selection.AssignFitness(parents, selection.FitnessOptions{Kappa: *p.args.Kappa, Sense: sense})
	if err != nil {
		return nil, fmt.Errorf("scoring the final parents: %w", err)
	}
	points := framework.ObjectiveMatrix(scored, sense)
	box, err := indicator.NewBox(points)
	if err != nil {
		return nil, fmt.Errorf("scoring the final parents: %w", err)
	}
	ref := append([]float64(nil), box.Max...)
	floats.AddConst(1, ref)
	contributions, err := hype.Estimate(points, ref, p.hypervolumeOptions(rng))
	if err != nil {
		return nil, fmt.Errorf("hypervolume of the final parents: %w", err)
	}

	oriented := make([]framework.Individual, len(scored))
	for i := range scored {
		oriented[i] = framework.Individual{Objectives: points[i]}
	}
	framework.NonDominatedSort(oriented)

	solutions := make([]v1alpha1.Solution, len(scored))
	for i, ind := range scored {
		solutions[i] = v1alpha1.Solution{
			Rank:        oriented[i].Rank,
			Fitness:     ind.Fitness,
			Hypervolume: contributions[i],
			Variables:   append([]float64(nil), ind.Variables...),
			Objectives:  append([]float64(nil), ind.Objectives...),
		}
	}
	sort.SliceStable(solutions, func(i, j int) bool {
		if solutions[i].Rank != solutions[j].Rank {
			return solutions[i].Rank < solutions[j].Rank
		}
		return solutions[i].Fitness < solutions[j].Fitness
	})

	logger.V(4).Info("Scored final parents", "solutions", len(solutions), "firstFront", countRank(solutions, 0))
	return solutions, nil
}

func countRank(solutions []v1alpha1.Solution, rank int) int {
	n := 0
	for _, s := range solutions {
		if s.Rank == rank {
			n++
		}
	}
	return n
}
