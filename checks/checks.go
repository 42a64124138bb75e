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

// Package checks contains parameter checks shared by the differentially
// private primitives of this library.
package checks

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// Sentinel errors for the two classes of parameter failure. Checks wrap them
// with fmt.Errorf so callers can classify failures with errors.Is while still
// getting a message naming the offending value.
var (
	// ErrInvalidParameter indicates a non-positive or non-finite privacy
	// parameter or sensitivity.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidBound indicates clamping bounds with lower > upper, or
	// non-finite bounds.
	ErrInvalidBound = errors.New("invalid bound")
)

// CheckEpsilonVeryStrict returns an error if ε is smaller than 2⁻⁵⁰, +∞, or NaN.
//
// The 2⁻⁵⁰ floor is required by the secure Laplace sampling scheme: epsilons
// below it make overflows in the geometric sampler non-negligible.
func CheckEpsilonVeryStrict(epsilon float64) error {
	if epsilon < math.Exp2(-50.0) || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: Epsilon is %f, must be at least 2^-50 and finite", ErrInvalidParameter, epsilon)
	}
	return nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive, +∞, or NaN.
func CheckEpsilonStrict(epsilon float64) error {
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: Epsilon is %f, must be strictly positive and finite", ErrInvalidParameter, epsilon)
	}
	return nil
}

// CheckSensitivity returns an error if the sensitivity is nonpositive, +∞, or
// NaN. A zero sensitivity is rejected rather than treated as noiseless: it
// would make the noise scale degenerate and silently void the privacy
// guarantee.
func CheckSensitivity(sensitivity float64) error {
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return fmt.Errorf("%w: Sensitivity is %f, must be strictly positive and finite", ErrInvalidParameter, sensitivity)
	}
	return nil
}

// CheckBounds returns an error if lower is larger than upper or if either
// bound is non-finite. Equal bounds are legal for clamping but produce a
// warning, since every element will be clamped to the same value.
func CheckBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return fmt.Errorf("%w: bounds (%f, %f) cannot be NaN", ErrInvalidBound, lower, upper)
	}
	if math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return fmt.Errorf("%w: bounds (%f, %f) cannot be infinite", ErrInvalidBound, lower, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: upper bound (%f) must be at least lower bound (%f)", ErrInvalidBound, upper, lower)
	}
	if lower == upper {
		log.Warningf("Lower bound is equal to upper bound: all elements will be clamped to %f", upper)
	}
	return nil
}

// CheckTolerance returns an error if the plateau-detection tolerance factor is
// nonpositive, +∞, or NaN.
func CheckTolerance(k float64) error {
	if k <= 0 || math.IsInf(k, 0) || math.IsNaN(k) {
		return fmt.Errorf("%w: Tolerance is %f, must be strictly positive and finite", ErrInvalidParameter, k)
	}
	return nil
}
