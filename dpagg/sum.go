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

// Package dpagg contains the aggregation queries of this library and their
// declared sensitivities.
//
// A query is a pure function from a dataset to a real number. Each query type
// declares its own sensitivity, i.e. the largest possible change of its true
// output caused by adding or removing a single record. Callers pass that
// sensitivity to a noise.Mechanism to make the release of the result
// differentially private.
package dpagg

import (
	"fmt"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/dataset"
)

// ClippedSumQuery sums a single numeric attribute over all records of a
// dataset, after clamping each value into [Lower, Upper].
//
// Clamping is what makes the sensitivity of the sum finite: without bounds on
// the attribute values, a single added record could change the sum by an
// arbitrary amount. With clamping, one record can move the sum by at most
// Upper - Lower, which Sensitivity reports.
type ClippedSumQuery struct {
	// Attribute names the numeric column to sum. It must be present with a
	// numeric value in every record.
	Attribute string
	// Lower and Upper are the clamping bounds; Lower <= Upper is required.
	// Lower == Upper is a legal but degenerate query whose sensitivity is
	// zero, which no mechanism will accept.
	Lower, Upper float64
}

// Sensitivity returns the largest change one added or removed record can
// cause in the true clipped sum, which is Upper - Lower.
func (q ClippedSumQuery) Sensitivity() float64 {
	return q.Upper - q.Lower
}

// Eval computes the true, non-private clipped sum over the dataset. It is a
// pure function: the dataset is not mutated and no randomness is consumed.
func (q ClippedSumQuery) Eval(ds dataset.Dataset) (float64, error) {
	if err := checks.CheckBounds(q.Lower, q.Upper); err != nil {
		return 0, fmt.Errorf("ClippedSumQuery: %w", err)
	}
	var sum float64
	for i, r := range ds.Records() {
		v, err := r.Float64(q.Attribute)
		if err != nil {
			return 0, fmt.Errorf("ClippedSumQuery: record %d: %w", i, err)
		}
		sum += clampFloat64(v, q.Lower, q.Upper)
	}
	return sum, nil
}

// clampFloat64 clamps e within lower and upper, such that lower is returned
// if e < lower, and upper is returned if e > upper. Otherwise, e is returned.
// Callers must ensure lower <= upper.
func clampFloat64(e, lower, upper float64) float64 {
	if e > upper {
		return upper
	}
	if e < lower {
		return lower
	}
	return e
}
