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

// Package sweep implements a privacy-budgeted search for a clipping upper
// bound.
//
// Picking clamping bounds by inspecting the raw data would leak information
// outside of any privacy budget. Instead, the sweep releases a noisy clipped
// sum for each candidate upper bound, paying a fixed epsilon per candidate,
// and lets the caller look for the bound past which the noisy sums stop
// growing: once the upper bound exceeds every value in the data, raising it
// further cannot change the true sum, so the released sequence plateaus.
package sweep

import (
	"errors"
	"fmt"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/dataset"
	"github.com/privacylab/boundsearch/dpagg"
	"github.com/privacylab/boundsearch/noise"
)

// ErrEmptyCandidateSet indicates a sweep invoked without candidate bounds.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// Options contains the options necessary to run a bound sweep.
type Options struct {
	// Attribute names the numeric column whose clipping bound is searched.
	// Required.
	Attribute string
	// Lower is the fixed lower clamping bound, commonly 0.
	Lower float64
	// Candidates is the ordered sequence of upper bounds to try. Required;
	// every candidate must be strictly larger than Lower (a candidate equal
	// to Lower would give the clipped sum a sensitivity of zero, which no
	// mechanism accepts).
	Candidates []float64
	// EpsilonPerTrial is the privacy budget consumed by each candidate's
	// noisy release. Required; must be strictly positive.
	EpsilonPerTrial float64
	// Mechanism used to noise the per-candidate sums. Defaults to Laplace
	// noise.
	Mechanism noise.Mechanism
}

// Trial is one released candidate: the upper bound that was tried, the noisy
// clipped sum, and the scale of the noise it carries. Trials are never
// mutated after they are recorded.
type Trial struct {
	Upper float64
	Noisy float64
	// Scale is the noise scale of this release, sensitivity/epsilon for
	// Laplace noise. Consumers use it to judge whether two noisy sums
	// differ by more than noise.
	Scale float64
}

// Result is the outcome of a sweep: the released trials in the order they
// were run, and the total privacy cost.
type Result struct {
	// Trials holds one entry per executed candidate, in candidate order.
	Trials []Trial
	// EpsilonSpent is the total privacy cost of the released trials. By
	// sequential composition it is EpsilonPerTrial times the number of
	// executed trials, regardless of whether the trials touched overlapping
	// rows. It is valid even when the sweep stopped early.
	EpsilonSpent float64
}

// Run sweeps the candidate upper bounds in order and releases a noisy clipped
// sum for each.
//
// All parameters, the attribute, and every candidate bound are validated
// before the first noise draw, so a failed validation consumes no privacy
// budget. An invalid candidate anywhere in the sequence aborts the whole
// sweep rather than skipping the candidate: a partially-skipped sweep would
// leave the total privacy cost ambiguous.
//
// If a noise draw fails mid-sweep, Run returns the trials released so far
// together with the error; their epsilon is already spent and callers must
// account for it even when discarding the partial sequence.
func Run(ds dataset.Dataset, opt Options) (*Result, error) {
	if len(opt.Candidates) == 0 {
		return nil, fmt.Errorf("sweep.Run: %w", ErrEmptyCandidateSet)
	}
	if err := checks.CheckEpsilonStrict(opt.EpsilonPerTrial); err != nil {
		return nil, fmt.Errorf("sweep.Run: EpsilonPerTrial: %w", err)
	}
	for i, upper := range opt.Candidates {
		if err := checks.CheckBounds(opt.Lower, upper); err != nil {
			return nil, fmt.Errorf("sweep.Run: candidate %d (%f): %w", i, upper, err)
		}
		if upper == opt.Lower {
			return nil, fmt.Errorf("sweep.Run: candidate %d (%f) equals the lower bound, the clipped sum would have zero sensitivity: %w",
				i, upper, checks.ErrInvalidParameter)
		}
	}
	if err := ds.CheckNumericAttribute(opt.Attribute); err != nil {
		return nil, fmt.Errorf("sweep.Run: %w", err)
	}
	mech := opt.Mechanism
	if mech == nil {
		mech = noise.Laplace()
	}

	res := &Result{
		Trials: make([]Trial, 0, len(opt.Candidates)),
	}
	for i, upper := range opt.Candidates {
		q := dpagg.ClippedSumQuery{Attribute: opt.Attribute, Lower: opt.Lower, Upper: upper}
		trueSum, err := q.Eval(ds)
		if err != nil {
			// Unreachable after the validation above, but a query failure
			// before the noise draw still costs nothing.
			return res, fmt.Errorf("sweep.Run: candidate %d (%f): %w", i, upper, err)
		}
		noisy, err := mech.AddNoise(trueSum, q.Sensitivity(), opt.EpsilonPerTrial)
		if err != nil {
			return res, fmt.Errorf("sweep.Run: candidate %d (%f): %w", i, upper, err)
		}
		res.Trials = append(res.Trials, Trial{
			Upper: upper,
			Noisy: noisy,
			Scale: mech.Scale(q.Sensitivity(), opt.EpsilonPerTrial),
		})
		res.EpsilonSpent += opt.EpsilonPerTrial
	}
	return res, nil
}
