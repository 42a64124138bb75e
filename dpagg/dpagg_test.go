//
// Copyright 2026 The boundsearch authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package dpagg

import (
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/dataset"
)

// This file contains structs, functions, and values used to test the
// aggregation queries.

var (
	ln3    = math.Log(3)
	tenten = math.Pow10(-10)
)

// noNoise is a Mechanism that returns its input unchanged. It still validates
// its parameters the way a real mechanism would.
type noNoise struct{}

func (noNoise) AddNoise(x, sensitivity, epsilon float64) (float64, error) {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return 0, err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	return x, nil
}

func (noNoise) Scale(sensitivity, epsilon float64) float64 {
	return 0
}

// offsetNoise is a Mechanism that shifts its input by a fixed offset. Tests
// use it to force the noisy count below zero.
type offsetNoise struct {
	offset float64
}

func (o offsetNoise) AddNoise(x, sensitivity, epsilon float64) (float64, error) {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return 0, err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	return x + o.offset, nil
}

func (o offsetNoise) Scale(sensitivity, epsilon float64) float64 {
	return 0
}

func ApproxEqual(x, y float64) bool {
	return cmp.Equal(x, y, cmpopts.EquateApprox(0, tenten))
}

// agesDataset returns the 5-row dataset used throughout the query tests.
func agesDataset() dataset.Dataset {
	values := []float64{10, 20, 30, 200, 5}
	records := make([]dataset.Record, len(values))
	for i, v := range values {
		records[i] = dataset.Record{"Age": v, "Name": "row"}
	}
	return dataset.New(records)
}
