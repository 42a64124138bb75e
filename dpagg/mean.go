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
	"errors"
	"fmt"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/dataset"
	"github.com/privacylab/boundsearch/noise"
)

// ErrDegenerateCount indicates that the noisy denominator of a private mean
// came out non-positive, so the division is undefined.
var ErrDegenerateCount = errors.New("degenerate noisy count")

// MeanOptions contains the options necessary to compute a private mean.
type MeanOptions struct {
	// Attribute names the numeric column to average. Required.
	Attribute string
	// Lower and Upper are the clamping bounds of the underlying sum.
	// Required; must be such that Lower <= Upper.
	Lower, Upper float64
	// SumEpsilon and CountEpsilon are the privacy budgets of the noisy sum
	// and the noisy count. Required; both must be strictly positive. The
	// total privacy cost of the mean is their sum.
	SumEpsilon, CountEpsilon float64
	// Mechanism used to noise the sum and the count. Defaults to Laplace
	// noise.
	Mechanism noise.Mechanism
	// ClampCount makes a non-positive noisy count fall back to 1 instead of
	// failing with ErrDegenerateCount. This is mere post-processing of
	// already-noised values, so the privacy bounds are preserved, but it
	// biases the result upwards for very small datasets.
	ClampCount bool
}

// MeanResult is the outcome of a private mean release.
type MeanResult struct {
	// Mean is the private estimate of the clipped mean.
	Mean float64
	// NoisySum and NoisyCount are the two noisy releases the mean was
	// derived from. Publishing them costs no additional budget.
	NoisySum, NoisyCount float64
	// EpsilonSpent is the total privacy cost, SumEpsilon + CountEpsilon by
	// sequential composition.
	EpsilonSpent float64
}

// Mean computes a differentially private mean of one numeric attribute as the
// quotient of a noisy clipped sum and a noisy count.
//
// The two noisy queries are released independently, so by sequential
// composition the total privacy cost is SumEpsilon + CountEpsilon. The
// reported EpsilonSpent is valid even when the call fails with
// ErrDegenerateCount: at that point both noise draws have already happened
// and their cost is spent. Validation failures, in contrast, happen before
// any draw and cost nothing.
func Mean(ds dataset.Dataset, opt MeanOptions) (MeanResult, error) {
	if err := checks.CheckEpsilonStrict(opt.SumEpsilon); err != nil {
		return MeanResult{}, fmt.Errorf("Mean: SumEpsilon: %w", err)
	}
	if err := checks.CheckEpsilonStrict(opt.CountEpsilon); err != nil {
		return MeanResult{}, fmt.Errorf("Mean: CountEpsilon: %w", err)
	}
	if err := ds.CheckNumericAttribute(opt.Attribute); err != nil {
		return MeanResult{}, fmt.Errorf("Mean: %w", err)
	}
	mech := opt.Mechanism
	if mech == nil {
		mech = noise.Laplace()
	}

	sumQuery := ClippedSumQuery{Attribute: opt.Attribute, Lower: opt.Lower, Upper: opt.Upper}
	trueSum, err := sumQuery.Eval(ds)
	if err != nil {
		return MeanResult{}, fmt.Errorf("Mean: %w", err)
	}
	trueCount, _ := CountQuery{}.Eval(ds)

	noisySum, err := mech.AddNoise(trueSum, sumQuery.Sensitivity(), opt.SumEpsilon)
	if err != nil {
		return MeanResult{}, fmt.Errorf("Mean: noising sum: %w", err)
	}
	res := MeanResult{NoisySum: noisySum, EpsilonSpent: opt.SumEpsilon}

	noisyCount, err := mech.AddNoise(trueCount, CountQuery{}.Sensitivity(), opt.CountEpsilon)
	if err != nil {
		// The sum draw already happened; its cost stays in the result.
		return res, fmt.Errorf("Mean: noising count: %w", err)
	}
	res.NoisyCount = noisyCount
	res.EpsilonSpent += opt.CountEpsilon

	if noisyCount <= 0 {
		if !opt.ClampCount {
			return res, fmt.Errorf("Mean: noisy count is %f: %w", noisyCount, ErrDegenerateCount)
		}
		noisyCount = 1
	}
	res.Mean = noisySum / noisyCount
	return res, nil
}
