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

// Package noise contains mechanisms that add calibrated random noise to query
// results to make them differentially private.
package noise

// Mechanism is an interface for primitives that randomize a true query answer
// so that publishing the result is differentially private.
//
// Mechanism is also the swap point for tests: installing a deterministic
// implementation turns every consumer of noisy results into an exactly
// checkable computation.
type Mechanism interface {
	// AddNoise adds random noise to the true query answer x, calibrated to
	// the query's sensitivity and the privacy parameter ε of the release.
	// It fails if sensitivity or epsilon are not strictly positive; a zero
	// sensitivity is never treated as permission to skip the noise draw.
	AddNoise(x, sensitivity, epsilon float64) (float64, error)

	// Scale returns the scale of the noise distribution for the given
	// sensitivity and epsilon, without drawing a sample. Callers use it to
	// reason about the magnitude of the noise, e.g. for plateau tolerances.
	Scale(sensitivity, epsilon float64) float64
}
