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

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgs is wrapped by every validation error.
var ErrInvalidArgs = errors.New("invalid IBEA args")

func fieldError(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgs, path, fmt.Sprintf(format, args...))
}

// ValidateIBEAArgs validates defaulted IBEA args and returns all field
// errors joined.
func ValidateIBEAArgs(args *IBEAArgs) error {
	var errs []error
	required := func(path string, set bool) bool {
		if !set {
			errs = append(errs, fieldError(path, "required"))
		}
		return set
	}

	if required("offspringSize", args.OffspringSize != nil) && *args.OffspringSize < 1 {
		errs = append(errs, fieldError("offspringSize", "must be positive, got %d", *args.OffspringSize))
	}
	if required("mu", args.Mu != nil) && *args.Mu < 0 {
		errs = append(errs, fieldError("mu", "must not be negative, got %d", *args.Mu))
	}
	if required("alpha", args.Alpha != nil) && *args.Alpha < 0 {
		errs = append(errs, fieldError("alpha", "must not be negative, got %d", *args.Alpha))
	}
	if required("kappa", args.Kappa != nil) && !(*args.Kappa > 0 && !math.IsInf(*args.Kappa, 1)) {
		errs = append(errs, fieldError("kappa", "must be positive and finite, got %v", *args.Kappa))
	}
	if required("tournamentSize", args.TournamentSize != nil) && *args.TournamentSize < 1 {
		errs = append(errs, fieldError("tournamentSize", "must be positive, got %d", *args.TournamentSize))
	}
	if required("eta", args.Eta != nil) && !(*args.Eta >= 0 && !math.IsInf(*args.Eta, 1)) {
		errs = append(errs, fieldError("eta", "must be non-negative and finite, got %v", *args.Eta))
	}
	for _, p := range []struct {
		path  string
		value *float64
	}{
		{"crossoverProb", args.CrossoverProb},
		{"mutationProb", args.MutationProb},
		{"geneMutationProb", args.GeneMutationProb},
	} {
		if required(p.path, p.value != nil) && !(*p.value >= 0 && *p.value <= 1) {
			errs = append(errs, fieldError(p.path, "must be in [0, 1], got %v", *p.value))
		}
	}
	switch args.Truncation {
	case TruncationIndicator, TruncationHypervolume, TruncationNSGA2:
	default:
		errs = append(errs, fieldError("truncation", "unsupported value %q", args.Truncation))
	}
	if args.HallOfFameSize != nil && *args.HallOfFameSize < 0 {
		errs = append(errs, fieldError("hallOfFameSize", "must not be negative, got %d", *args.HallOfFameSize))
	}
	required("seed", args.Seed != nil)

	errs = append(errs, validateStoppingArgs("stopping", &args.Stopping)...)
	errs = append(errs, validateHypervolumeArgs("hypervolume", &args.Hypervolume)...)
	return errors.Join(errs...)
}

func validateStoppingArgs(path string, args *StoppingArgs) []error {
	var errs []error
	if args.MaxGenerations == nil {
		errs = append(errs, fieldError(path+".maxGenerations", "required"))
	} else if *args.MaxGenerations < 0 {
		errs = append(errs, fieldError(path+".maxGenerations", "must not be negative, got %d", *args.MaxGenerations))
	}

	seen := make(map[CriterionName]bool, len(args.Criteria))
	for i, c := range args.Criteria {
		p := fmt.Sprintf("%s.criteria[%d]", path, i)
		switch c {
		case CriterionStagnation, CriterionStagnationV2, CriterionToleranceHistFun, CriterionEqualFunctionValues:
		default:
			errs = append(errs, fieldError(p, "unsupported criterion %q", c))
			continue
		}
		if seen[c] {
			errs = append(errs, fieldError(p, "duplicate criterion %q", c))
		}
		seen[c] = true
	}

	for _, t := range []struct {
		path  string
		value *float64
	}{
		{path + ".stagnationThreshold", args.StagnationThreshold},
		{path + ".stagnationStdThreshold", args.StagnationStdThreshold},
	} {
		if t.value == nil {
			errs = append(errs, fieldError(t.path, "required"))
		} else if !(*t.value >= 0) {
			errs = append(errs, fieldError(t.path, "must not be negative, got %v", *t.value))
		}
	}
	return errs
}

func validateHypervolumeArgs(path string, args *HypervolumeArgs) []error {
	var errs []error
	switch args.Mode {
	case HypervolumeExact, HypervolumeSampled:
	default:
		errs = append(errs, fieldError(path+".mode", "unsupported value %q", args.Mode))
	}
	if args.Samples == nil {
		errs = append(errs, fieldError(path+".samples", "required"))
	} else if *args.Samples < 1 {
		errs = append(errs, fieldError(path+".samples", "must be positive, got %d", *args.Samples))
	}
	return errs
}
