package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
	"github.com/neurofit/optimizer/pkg/multiobjective/hype"
	"github.com/neurofit/optimizer/pkg/multiobjective/selection"
	"github.com/neurofit/optimizer/pkg/multiobjective/stopping"
)

const (
	Name = "IBEA"

	DefaultOffspringSize = 10
	DefaultEta           = 10
	DefaultCrossoverProb = 1.0
	DefaultMutationProb  = 1.0
	DefaultGeneMutation  = 0.5
)

// Truncation selects how the next parents are chosen from parents plus
// offspring.
type Truncation int

const (
	// IndicatorTruncation uses the IBEA epsilon-indicator fitness followed by
	// tournament mating selection.
	IndicatorTruncation Truncation = iota
	// HypervolumeTruncation keeps whole non-dominated fronts and breaks the
	// last one by HypE value.
	HypervolumeTruncation
	// NSGA2Truncation keeps whole non-dominated fronts and breaks the last
	// one by crowding distance.
	NSGA2Truncation
)

func (t Truncation) String() string {
	switch t {
	case IndicatorTruncation:
		return "indicator"
	case HypervolumeTruncation:
		return "hypervolume"
	case NSGA2Truncation:
		return "nsga2"
	default:
		return fmt.Sprintf("Truncation(%d)", int(t))
	}
}

var ErrInvalidConfig = errors.New("invalid algorithm configuration")

// IBEA is an alpha-mu-plus-lambda evolutionary loop around the IBEA selector.
type IBEA struct {
	Problem framework.Problem

	// OffspringSize is the size of the initial population.
	OffspringSize int
	// Mu is the number of parents selected each generation. Zero means
	// OffspringSize.
	Mu int
	// Alpha is the archive size of the selector. Zero means the size of the
	// population being selected from.
	Alpha          int
	Kappa          float64
	TournamentSize int

	// Eta is the distribution index of both SBX crossover and polynomial
	// mutation.
	Eta           float64
	CrossoverProb float64
	MutationProb  float64
	// GeneMutationProb is the probability of every gene of a mutated child
	// to be perturbed.
	GeneMutationProb float64

	Truncation  Truncation
	Hypervolume hype.Options

	// HallOfFameSize bounds the hall of fame to the best individuals by
	// summed objectives. Zero keeps every non-dominated individual.
	HallOfFameSize int

	MaxGenerations int
	// Criteria are polled after every generation together with the
	// MaxGeneration criterion. They receive the generation number and the
	// population fitness only.
	Criteria []stopping.Criterion

	Rand *rand.Rand
}

// Result is the outcome of a run.
type Result struct {
	// Population is the last parents plus offspring.
	Population []framework.Individual
	Parents    []framework.Individual
	HallOfFame []framework.Individual
	// Generation is the number of the last generation, the initial
	// population being generation 1.
	Generation  int
	Evaluations int
	// StoppedBy lists the criteria that ended the run.
	StoppedBy []string
	// Logbook has one entry per generation.
	Logbook []GenerationStats
}

// GenerationStats summarizes the population of one generation. The
// statistics are taken over the sum of the objectives of every individual.
type GenerationStats struct {
	Generation int
	// Evaluations is the number of individuals evaluated in the generation.
	Evaluations int
	Avg         float64
	Std         float64
	Min         float64
	Max         float64
}

func generationStats(gen, evaluations int, population []framework.Individual) GenerationStats {
	sums := make([]float64, len(population))
	for i := range population {
		sums[i] = floats.Sum(population[i].Objectives)
	}
	return GenerationStats{
		Generation:  gen,
		Evaluations: evaluations,
		Avg:         stat.Mean(sums, nil),
		Std:         stat.PopStdDev(sums, nil),
		Min:         floats.Min(sums),
		Max:         floats.Max(sums),
	}
}

// NewIBEA returns a driver for problem with the default parameters.
func NewIBEA(problem framework.Problem, maxGenerations int, rng *rand.Rand) *IBEA {
	return &IBEA{
		Problem:          problem,
		OffspringSize:    DefaultOffspringSize,
		Kappa:            selection.DefaultKappa,
		TournamentSize:   selection.DefaultTournamentSize,
		Eta:              DefaultEta,
		CrossoverProb:    DefaultCrossoverProb,
		MutationProb:     DefaultMutationProb,
		GeneMutationProb: DefaultGeneMutation,
		MaxGenerations:   maxGenerations,
		Rand:             rng,
	}
}

func (a *IBEA) Name() string {
	return Name
}

func (a *IBEA) validate() error {
	var errs []error
	if a.Problem == nil {
		errs = append(errs, errors.New("nil problem"))
	} else {
		if len(a.Problem.ObjectiveFuncs()) == 0 {
			errs = append(errs, errors.New("problem has no objectives"))
		}
		if len(a.Problem.Bounds()) == 0 {
			errs = append(errs, errors.New("problem has no variables"))
		}
	}
	if a.OffspringSize < 1 {
		errs = append(errs, fmt.Errorf("offspring size must be positive, got %d", a.OffspringSize))
	}
	if a.Mu < 0 {
		errs = append(errs, fmt.Errorf("mu must not be negative, got %d", a.Mu))
	}
	if a.HallOfFameSize < 0 {
		errs = append(errs, fmt.Errorf("hall of fame size must not be negative, got %d", a.HallOfFameSize))
	}
	if a.Rand == nil {
		errs = append(errs, errors.New("nil random source"))
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"crossover", a.CrossoverProb},
		{"mutation", a.MutationProb},
		{"gene mutation", a.GeneMutationProb},
	} {
		if p.value < 0 || p.value > 1 {
			errs = append(errs, fmt.Errorf("%s probability must be in [0, 1], got %v", p.name, p.value))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Initialize creates an initial random population of individuals within the
// problem bounds.
func (a *IBEA) Initialize() []framework.Individual {
	bounds := a.Problem.Bounds()
	population := make([]framework.Individual, a.OffspringSize)
	for i := range population {
		population[i] = framework.Individual{Variables: framework.RandomVariables(a.Rand, bounds)}
	}
	return population
}

func (a *IBEA) evaluate(population []framework.Individual) {
	funcs := a.Problem.ObjectiveFuncs()
	for i := range population {
		population[i].Objectives = framework.Evaluate(funcs, population[i].Variables)
	}
}

// Variate produces one child per parent. Consecutive parents are mated with
// probability CrossoverProb, then every child is mutated with probability
// MutationProb. The parents are not modified.
func (a *IBEA) Variate(parents []framework.Individual) []framework.Individual {
	bounds := a.Problem.Bounds()
	offspring := make([]framework.Individual, len(parents))
	for i := range parents {
		offspring[i] = framework.Individual{Variables: append([]float64(nil), parents[i].Variables...)}
	}

	for i := 1; i < len(offspring); i += 2 {
		if a.Rand.Float64() < a.CrossoverProb {
			offspring[i-1].Variables, offspring[i].Variables = framework.Crossover(
				a.Rand, offspring[i-1].Variables, offspring[i].Variables, a.Eta, bounds)
		}
	}
	for i := range offspring {
		if a.Rand.Float64() < a.MutationProb {
			framework.Mutate(a.Rand, offspring[i].Variables, a.Eta, a.GeneMutationProb, bounds)
		}
	}
	return offspring
}

func (a *IBEA) selectParents(population []framework.Individual, mu int) ([]framework.Individual, error) {
	sense := a.Problem.Sense()
	switch a.Truncation {
	case IndicatorTruncation:
		_, parents, err := selection.Select(population, mu, selection.Options{
			FitnessOptions: selection.FitnessOptions{Kappa: a.Kappa, Sense: sense},
			Alpha:          a.Alpha,
			TournamentSize: a.TournamentSize,
		}, a.Rand)
		return parents, err
	case HypervolumeTruncation:
		opts := a.Hypervolume
		if opts.Mode == hype.Sampled && opts.Rand == nil {
			opts.Rand = a.Rand
		}
		chosen, _, err := SelectByHypervolume(population, mu, sense, opts)
		return chosen, err
	case NSGA2Truncation:
		chosen, _, err := SelectByCrowding(population, mu, sense)
		return chosen, err
	default:
		return nil, fmt.Errorf("%w: unknown truncation %v", ErrInvalidConfig, a.Truncation)
	}
}

// Run executes the evolutionary loop until a stopping criterion is met or
// ctx is done.
func (a *IBEA) Run(ctx context.Context) (*Result, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	logger := klog.FromContext(ctx).WithValues("algorithm", a.Name(), "problem", a.Problem.Name())

	mu := a.Mu
	if mu == 0 {
		mu = a.OffspringSize
	}
	bank := stopping.NewBank(append([]stopping.Criterion{stopping.NewMaxGeneration(a.MaxGenerations)}, a.Criteria...)...)
	hof := NewBestHallOfFame(a.Problem.Sense(), a.HallOfFameSize)

	population := a.Initialize()
	a.evaluate(population)
	evaluations := len(population)
	hof.Update(population)
	parents := clonePopulation(population)
	logbook := []GenerationStats{generationStats(1, len(population), population)}

	gen := 1
	for {
		if err := bank.Check(a.state(gen, population)); err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		if bank.Stop() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen++

		offspring := a.Variate(parents)
		a.evaluate(offspring)
		evaluations += len(offspring)
		hof.Update(offspring)

		population = append(clonePopulation(parents), offspring...)
		var err error
		parents, err = a.selectParents(population, mu)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}

		record := generationStats(gen, len(offspring), population)
		logbook = append(logbook, record)
		logger.V(4).Info("Generation done", "generation", gen,
			"evaluations", humanize.Comma(int64(evaluations)), "hallOfFame", hof.Len(),
			"avg", record.Avg, "min", record.Min)
	}

	stoppedBy := bank.Met()
	logger.V(2).Info("Run finished", "generation", gen,
		"evaluations", humanize.Comma(int64(evaluations)), "stoppedBy", stoppedBy)

	return &Result{
		Population:  population,
		Parents:     parents,
		HallOfFame:  hof.Members(),
		Generation:  gen,
		Evaluations: evaluations,
		StoppedBy:   stoppedBy,
		Logbook:     logbook,
	}, nil
}

// state summarizes a generation for the stopping criteria. The fitness of an
// individual is the sum of its objectives oriented for minimization.
func (a *IBEA) state(gen int, population []framework.Individual) stopping.State {
	sense := a.Problem.Sense()
	fitness := make([]float64, len(population))
	for i := range population {
		fitness[i] = floats.Sum(sense.Orient(population[i].Objectives))
	}
	return stopping.State{}.WithGeneration(gen).WithFitness(fitness)
}
