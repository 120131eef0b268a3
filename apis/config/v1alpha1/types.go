/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

// IBEAArgs holds the arguments used to configure an IBEA optimisation run.
// Unset optional fields are filled in by SetDefaults_IBEAArgs.
type IBEAArgs struct {
	// OffspringSize is the size of the initial population and of every
	// generation of offspring.
	OffspringSize *int32 `json:"offspringSize,omitempty"`

	// Mu is the number of parents selected each generation. Zero means
	// OffspringSize.
	Mu *int32 `json:"mu,omitempty"`

	// Alpha is the archive size kept by environmental selection. Zero means
	// the size of the population being selected from.
	Alpha *int32 `json:"alpha,omitempty"`

	// Kappa is the fitness scaling factor of the selector.
	Kappa *float64 `json:"kappa,omitempty"`

	// TournamentSize is the number of contestants of a mating tournament.
	TournamentSize *int32 `json:"tournamentSize,omitempty"`

	// Eta is the distribution index of crossover and mutation.
	Eta *float64 `json:"eta,omitempty"`

	// CrossoverProb is the probability of mating two consecutive parents.
	CrossoverProb *float64 `json:"crossoverProb,omitempty"`

	// MutationProb is the probability of mutating a child.
	MutationProb *float64 `json:"mutationProb,omitempty"`

	// GeneMutationProb is the probability of every gene of a mutated child
	// to be perturbed.
	GeneMutationProb *float64 `json:"geneMutationProb,omitempty"`

	// Truncation selects how the next parents are chosen.
	// +kubebuilder:validation:Enum=Indicator;Hypervolume;NSGA2
	Truncation TruncationType `json:"truncation,omitempty"`

	// HallOfFameSize bounds the hall of fame to the best individuals by
	// summed objectives. Unset or zero keeps every non-dominated individual.
	HallOfFameSize *int32 `json:"hallOfFameSize,omitempty"`

	// Seed seeds the random source of the run.
	Seed *uint64 `json:"seed,omitempty"`

	// Stopping configures the termination of the run.
	Stopping StoppingArgs `json:"stopping,omitempty"`

	// Hypervolume configures the HypE computations, both for the
	// Hypervolume truncation and for the contributions in the run report.
	Hypervolume HypervolumeArgs `json:"hypervolume,omitempty"`
}

// TruncationType names a parent selection scheme.
type TruncationType string

const (
	// TruncationIndicator selects parents by epsilon-indicator fitness.
	TruncationIndicator TruncationType = "Indicator"

	// TruncationHypervolume selects parents by non-dominated rank and HypE
	// value.
	TruncationHypervolume TruncationType = "Hypervolume"

	// TruncationNSGA2 selects parents by non-dominated rank and crowding
	// distance.
	TruncationNSGA2 TruncationType = "NSGA2"
)

// StoppingArgs configures the stopping criteria of a run. The maximum number
// of generations always applies.
type StoppingArgs struct {
	// MaxGenerations is the number of generations evolved after the initial
	// population.
	MaxGenerations *int32 `json:"maxGenerations,omitempty"`

	// Criteria lists the additional criteria polled every generation.
	Criteria []CriterionName `json:"criteria,omitempty"`

	// StagnationThreshold is the relative improvement below which
	// StagnationV2 considers the best fitness stalled.
	StagnationThreshold *float64 `json:"stagnationThreshold,omitempty"`

	// StagnationStdThreshold bounds the relative spread of the recent best
	// fitness values for StagnationV2.
	StagnationStdThreshold *float64 `json:"stagnationStdThreshold,omitempty"`
}

// CriterionName names a stopping criterion that only needs the population
// fitness.
// +kubebuilder:validation:Enum=Stagnation;StagnationV2;ToleranceHistFun;EqualFunctionValues
type CriterionName string

const (
	CriterionStagnation          CriterionName = "Stagnation"
	CriterionStagnationV2        CriterionName = "StagnationV2"
	CriterionToleranceHistFun    CriterionName = "ToleranceHistFun"
	CriterionEqualFunctionValues CriterionName = "EqualFunctionValues"
)

// HypervolumeArgs configures the HypE estimator.
type HypervolumeArgs struct {
	// Mode is Exact or Sampled.
	// +kubebuilder:validation:Enum=Exact;Sampled
	Mode HypervolumeMode `json:"mode,omitempty"`

	// Samples is the number of Monte-Carlo samples in Sampled mode.
	Samples *int32 `json:"samples,omitempty"`
}

// HypervolumeMode names a HypE algorithm.
type HypervolumeMode string

const (
	HypervolumeExact   HypervolumeMode = "Exact"
	HypervolumeSampled HypervolumeMode = "Sampled"
)

// RunReport is the outcome of an optimisation run.
type RunReport struct {
	// Problem is the name of the optimised problem.
	Problem string `json:"problem"`

	// Algorithm is the name of the algorithm that produced the report.
	Algorithm string `json:"algorithm"`

	// Generation is the number of the last generation, the initial
	// population being generation 1.
	Generation int `json:"generation"`

	// Evaluations is the number of objective evaluations.
	Evaluations int `json:"evaluations"`

	// StoppedBy lists the criteria that ended the run.
	StoppedBy []string `json:"stoppedBy,omitempty"`

	// Solutions contains the final parents ordered by rank, then fitness.
	Solutions []Solution `json:"solutions"`

	// ParetoFront is the number of hall of fame members: the non-dominated
	// individuals seen during the run unless hallOfFameSize is set.
	ParetoFront int `json:"paretoFront"`

	// Logbook holds the statistics of every generation.
	Logbook []GenerationRecord `json:"logbook,omitempty"`
}

// GenerationRecord summarizes the summed objectives of the population of one
// generation.
type GenerationRecord struct {
	Generation  int     `json:"generation"`
	Evaluations int     `json:"evaluations"`
	Avg         float64 `json:"avg"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// Solution is one individual of a run report.
type Solution struct {
	// Rank is the index of the non-dominated front of the solution among the
	// final parents (0 = best).
	Rank int `json:"rank"`

	// Fitness is the epsilon-indicator fitness among the reported solutions.
	// Lower is better.
	Fitness float64 `json:"fitness"`

	// Hypervolume is the HypE contribution of the solution among the
	// reported solutions.
	Hypervolume float64 `json:"hypervolume"`

	// Variables is the decision vector.
	Variables []float64 `json:"variables"`

	// Objectives contains the objective values.
	Objectives []float64 `json:"objectives"`
}
