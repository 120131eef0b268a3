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
	"k8s.io/utils/ptr"
)

var (
	DefaultOffspringSize          int32   = 10
	DefaultKappa                  float64 = 0.05
	DefaultTournamentSize         int32   = 4
	DefaultEta                    float64 = 10
	DefaultCrossoverProb          float64 = 1.0
	DefaultMutationProb           float64 = 1.0
	DefaultGeneMutationProb       float64 = 0.5
	DefaultSeed                   uint64  = 1
	DefaultMaxGenerations         int32   = 10
	DefaultStagnationThreshold    float64 = 0.01
	DefaultStagnationStdThreshold float64 = 0.02
	DefaultHypervolumeSamples     int32   = 10000
)

// SetDefaults_IBEAArgs sets the default parameters for an IBEA run.
func SetDefaults_IBEAArgs(obj *IBEAArgs) {
	if obj.OffspringSize == nil {
		obj.OffspringSize = ptr.To(DefaultOffspringSize)
	}
	if obj.Mu == nil {
		obj.Mu = ptr.To(*obj.OffspringSize)
	}
	if obj.Alpha == nil {
		obj.Alpha = ptr.To[int32](0)
	}
	if obj.Kappa == nil {
		obj.Kappa = ptr.To(DefaultKappa)
	}
	if obj.TournamentSize == nil {
		obj.TournamentSize = ptr.To(DefaultTournamentSize)
	}
	if obj.Eta == nil {
		obj.Eta = ptr.To(DefaultEta)
	}
	if obj.CrossoverProb == nil {
		obj.CrossoverProb = ptr.To(DefaultCrossoverProb)
	}
	if obj.MutationProb == nil {
		obj.MutationProb = ptr.To(DefaultMutationProb)
	}
	if obj.GeneMutationProb == nil {
		obj.GeneMutationProb = ptr.To(DefaultGeneMutationProb)
	}
	if obj.Truncation == "" {
		obj.Truncation = TruncationIndicator
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(DefaultSeed)
	}
	SetDefaults_StoppingArgs(&obj.Stopping)
	SetDefaults_HypervolumeArgs(&obj.Hypervolume)
}

// SetDefaults_StoppingArgs sets the default stopping parameters.
func SetDefaults_StoppingArgs(obj *StoppingArgs) {
	if obj.MaxGenerations == nil {
		obj.MaxGenerations = ptr.To(DefaultMaxGenerations)
	}
	if obj.StagnationThreshold == nil {
		obj.StagnationThreshold = ptr.To(DefaultStagnationThreshold)
	}
	if obj.StagnationStdThreshold == nil {
		obj.StagnationStdThreshold = ptr.To(DefaultStagnationStdThreshold)
	}
}

// SetDefaults_HypervolumeArgs sets the default HypE parameters.
func SetDefaults_HypervolumeArgs(obj *HypervolumeArgs) {
	if obj.Mode == "" {
		obj.Mode = HypervolumeExact
	}
	if obj.Samples == nil {
		obj.Samples = ptr.To(DefaultHypervolumeSamples)
	}
}
