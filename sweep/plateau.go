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

	"github.com/montanaflynn/stats"

	"github.com/privacylab/boundsearch/checks"
)

// ErrNoPlateau indicates that no candidate satisfied the plateau criterion.
var ErrNoPlateau = errors.New("no plateau detected")

// SelectBound scans the released sequence for the point where the noisy sums
// stop changing by more than noise-sized amounts and returns the first upper
// bound at which that holds.
//
// A candidate starts the plateau if every noisy value from it onwards stays
// within k times the trial's own noise scale of the tail's median. The median
// is used as the reference so that a single noise spike inside an otherwise
// flat tail does not mask the plateau. A plateau must span at least two
// trials; the last candidate alone cannot demonstrate that the sums have
// stopped changing. Typical values for the tolerance factor k are 2 to 3.
//
// SelectBound is a heuristic. It only post-processes values that were already
// released, so it consumes no additional privacy budget, but it carries no
// formal guarantee of picking a good bound beyond the budget already spent on
// the sequence.
func (res *Result) SelectBound(k float64) (float64, error) {
	if err := checks.CheckTolerance(k); err != nil {
		return 0, fmt.Errorf("SelectBound: %w", err)
	}
	for i := 0; i+1 < len(res.Trials); i++ {
		tail := make([]float64, 0, len(res.Trials)-i)
		for _, tr := range res.Trials[i:] {
			tail = append(tail, tr.Noisy)
		}
		ref, err := stats.Median(tail)
		if err != nil {
			return 0, fmt.Errorf("SelectBound: %v", err)
		}
		flat := true
		for _, tr := range res.Trials[i:] {
			if math.Abs(tr.Noisy-ref) > k*tr.Scale {
				flat = false
				break
			}
		}
		if flat {
			return res.Trials[i].Upper, nil
		}
	}
	return 0, fmt.Errorf("SelectBound: %w", ErrNoPlateau)
}
