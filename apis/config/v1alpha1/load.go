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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// DecodeIBEAArgs parses YAML or JSON args, rejecting unknown fields, then
// defaults and validates them.
func DecodeIBEAArgs(data []byte) (*IBEAArgs, error) {
	args := &IBEAArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding IBEA args: %w", err)
	}
	SetDefaults_IBEAArgs(args)
	if err := ValidateIBEAArgs(args); err != nil {
		return nil, err
	}
	return args, nil
}

// LoadIBEAArgs reads and decodes the args file at path.
func LoadIBEAArgs(path string) (*IBEAArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading IBEA args: %w", err)
	}
	return DecodeIBEAArgs(data)
}

// MarshalReport encodes a run report as YAML.
func MarshalReport(report *RunReport) ([]byte, error) {
	return yaml.Marshal(report)
}

// UnmarshalReport decodes a YAML or JSON run report.
func UnmarshalReport(data []byte) (*RunReport, error) {
	report := &RunReport{}
	if err := yaml.UnmarshalStrict(data, report); err != nil {
		return nil, fmt.Errorf("decoding run report: %w", err)
	}
	return report, nil
}
