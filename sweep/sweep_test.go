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

package sweep

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/dataset"
)

var ln3 = math.Log(3)

// agesDataset returns the 5-row dataset used throughout the sweep tests. Its
// true clipped sums for lower = 0 are 115, 165, 215, 265, 265 at upper
// bounds 50, 100, 150, 200, 250.
func agesDataset() dataset.Dataset {
	values := []float64{10, 20, 30, 200, 5}
	records := make([]dataset.Record, len(values))
	for i, v := range values {
		records[i] = dataset.Record{"Age": v, "Name": "row"}
	}
	return dataset.New(records)
}

// seqNoise is a Mechanism that adds a fixed offset sequence to consecutive
// draws and reports a fixed scale. It fails once the offsets are exhausted.
type seqNoise struct {
	offsets []float64
	scale   float64
	draws   *int
}

func (s seqNoise) AddNoise(x, sensitivity, epsilon float64) (float64, error) {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return 0, err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return 0, err
	}
	if *s.draws >= len(s.offsets) {
		return 0, fmt.Errorf("seqNoise: out of offsets after %d draws", *s.draws)
	}
	offset := s.offsets[*s.draws]
	*s.draws++
	return x + offset, nil
}

func (s seqNoise) Scale(sensitivity, epsilon float64) float64 {
	return s.scale
}

func newSeqNoise(scale float64, offsets ...float64) seqNoise {
	return seqNoise{offsets: offsets, scale: scale, draws: new(int)}
}

func TestRunReleasesTrueSumsUnderStubNoise(t *testing.T) {
	mech := newSeqNoise(0, 0, 0, 0, 0, 0)
	res, err := Run(agesDataset(), Options{
		Attribute:       "Age",
		Lower:           0,
		Candidates:      []float64{50, 100, 150, 200, 250},
		EpsilonPerTrial: ln3,
		Mechanism:       mech,
	})
	if err != nil {
		t.Fatalf("Run: unexpected err %v", err)
	}
	want := []Trial{
		{Upper: 50, Noisy: 115},
		{Upper: 100, Noisy: 165},
		{Upper: 150, Noisy: 215},
		{Upper: 200, Noisy: 265},
		{Upper: 250, Noisy: 265},
	}
	if diff := cmp.Diff(want, res.Trials, cmpopts.EquateApprox(0, 1e-10)); diff != "" {
		t.Errorf("Run trials mismatch (-want +got):\n%s", diff)
	}
	if got, want := res.EpsilonSpent, 5*ln3; math.Abs(got-want) > 1e-10 {
		t.Errorf("EpsilonSpent = %f, want %f", got, want)
	}
}

func TestRunEpsilonComposesWithTrialCount(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		candidates := make([]float64, n)
		offsets := make([]float64, n)
		for i := range candidates {
			candidates[i] = float64(10 * (i + 1))
		}
		res, err := Run(agesDataset(), Options{
			Attribute:       "Age",
			Candidates:      candidates,
			EpsilonPerTrial: 0.25,
			Mechanism:       newSeqNoise(0, offsets...),
		})
		if err != nil {
			t.Fatalf("Run with %d candidates: unexpected err %v", n, err)
		}
		if got, want := res.EpsilonSpent, 0.25*float64(n); math.Abs(got-want) > 1e-10 {
			t.Errorf("EpsilonSpent with %d candidates = %f, want %f", n, got, want)
		}
	}
}

func TestRunValidation(t *testing.T) {
	base := func() Options {
		return Options{
			Attribute:       "Age",
			Lower:           0,
			Candidates:      []float64{50, 100},
			EpsilonPerTrial: ln3,
		}
	}
	for _, tc := range []struct {
		desc    string
		mutate  func(*Options)
		wantErr error
	}{
		{
			"empty candidate set",
			func(o *Options) { o.Candidates = nil },
			ErrEmptyCandidateSet,
		},
		{
			"zero epsilon",
			func(o *Options) { o.EpsilonPerTrial = 0 },
			checks.ErrInvalidParameter,
		},
		{
			"negative epsilon",
			func(o *Options) { o.EpsilonPerTrial = -1 },
			checks.ErrInvalidParameter,
		},
		{
			"candidate below lower bound",
			func(o *Options) { o.Candidates = []float64{50, -10, 100} },
			checks.ErrInvalidBound,
		},
		{
			"candidate equal to lower bound",
			func(o *Options) { o.Candidates = []float64{0, 50, 100} },
			checks.ErrInvalidParameter,
		},
		{
			"missing attribute",
			func(o *Options) { o.Attribute = "Nonexistent" },
			dataset.ErrAttributeNotFound,
		},
		{
			"categorical attribute",
			func(o *Options) { o.Attribute = "Name" },
			dataset.ErrTypeMismatch,
		},
	} {
		opt := base()
		tc.mutate(&opt)
		mech := newSeqNoise(0, 0, 0, 0)
		opt.Mechanism = mech
		res, err := Run(agesDataset(), opt)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("Run: when %s got err %v, want %v", tc.desc, err, tc.wantErr)
		}
		if res != nil {
			t.Errorf("Run: when %s got partial result %+v, want nil", tc.desc, res)
		}
		// Validation failures must never reach the mechanism: a rejected
		// sweep costs no privacy budget.
		if *mech.draws != 0 {
			t.Errorf("Run: when %s the mechanism was called %d times, want 0", tc.desc, *mech.draws)
		}
	}
}

func TestRunAccountsEpsilonOnAbort(t *testing.T) {
	// Two offsets only: the third draw fails mid-sweep.
	mech := newSeqNoise(0, 0, 0)
	res, err := Run(agesDataset(), Options{
		Attribute:       "Age",
		Candidates:      []float64{50, 100, 150, 200},
		EpsilonPerTrial: ln3,
		Mechanism:       mech,
	})
	if err == nil {
		t.Fatal("Run: got nil err, want a mid-sweep failure")
	}
	if res == nil {
		t.Fatal("Run: got nil result, want the partial trials")
	}
	if got, want := len(res.Trials), 2; got != want {
		t.Errorf("partial result has %d trials, want %d", got, want)
	}
	// The two executed draws are spent even though the sweep aborted.
	if got, want := res.EpsilonSpent, 2*ln3; math.Abs(got-want) > 1e-10 {
		t.Errorf("EpsilonSpent = %f, want %f", got, want)
	}
}

func TestRunDefaultsToLaplace(t *testing.T) {
	res, err := Run(agesDataset(), Options{
		Attribute:       "Age",
		Candidates:      []float64{50, 100},
		EpsilonPerTrial: ln3,
	})
	if err != nil {
		t.Fatalf("Run: unexpected err %v", err)
	}
	for i, tr := range res.Trials {
		if want := tr.Upper / ln3; math.Abs(tr.Scale-want) > 1e-10 {
			t.Errorf("trial %d: Scale = %f, want %f", i, tr.Scale, want)
		}
	}
}

func TestSweepEndToEndWithLaplace(t *testing.T) {
	// A deliberately large epsilon keeps the noise far below the 50-point
	// steps between consecutive true sums, so the sweep reproduces the shape
	// of the true sequence and the detector lands on the true maximum. The
	// failure probability of the selection is below e⁻¹⁵.
	const epsilon = 1000.0
	res, err := Run(agesDataset(), Options{
		Attribute:       "Age",
		Lower:           0,
		Candidates:      []float64{50, 100, 150, 200, 250},
		EpsilonPerTrial: epsilon,
	})
	if err != nil {
		t.Fatalf("Run: unexpected err %v", err)
	}
	if got, want := res.EpsilonSpent, 5*epsilon; math.Abs(got-want) > 1e-9 {
		t.Errorf("EpsilonSpent = %f, want %f", got, want)
	}
	trueSums := []float64{115, 165, 215, 265, 265}
	for i, tr := range res.Trials {
		// 20 noise scales; a miss is about as likely as e⁻²⁰.
		if math.Abs(tr.Noisy-trueSums[i]) > 20*tr.Scale {
			t.Errorf("trial %d: noisy sum %f is unreasonably far from true sum %f (scale %f)", i, tr.Noisy, trueSums[i], tr.Scale)
		}
	}

	bound, err := res.SelectBound(10)
	if err != nil {
		t.Fatalf("SelectBound: unexpected err %v", err)
	}
	if bound != 200 {
		t.Errorf("SelectBound = %f, want 200", bound)
	}
}
