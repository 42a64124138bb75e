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

package noise

import (
	"math"

	"github.com/privacylab/boundsearch/checks"
	"github.com/privacylab/boundsearch/rand"
)

// granularityParam determines the resolution of the numerical noise that is
// being generated relative to the sensitivity and privacy parameter epsilon.
// Larger values result in more fine grained noise, but increase the chance of
// sampling inaccuracies due to overflows. The probability of an overflow is
// less than 2⁻¹⁰⁰⁰, if the granularity parameter is set to a value of 2⁴⁰ or
// less and the epsilon passed to AddNoise is at least 2⁻⁵⁰.
//
// This parameter must be a power of 2.
var granularityParam = math.Exp2(40)

type laplace struct{}

// Laplace returns a Mechanism that adds Laplace noise to its input.
//
// The sampling is based on a geometric mechanism that is robust against
// unintentional privacy leaks due to artifacts of floating point arithmetic,
// rather than a float transform of a uniform variate. The marginal
// distribution is an exact discretized Laplace distribution with scale
// sensitivity/epsilon.
func Laplace() Mechanism {
	return laplace{}
}

// AddNoise adds Laplace noise to the true query answer x so that the output
// is ε-differentially private for a query with the given sensitivity.
func (laplace) AddNoise(x, sensitivity, epsilon float64) (float64, error) {
	if err := checkArgsLaplace(sensitivity, epsilon); err != nil {
		return 0, err
	}
	granularity := ceilPowerOfTwo((sensitivity / epsilon) / granularityParam)
	sample := twoSidedGeometric(granularity * epsilon / (sensitivity + granularity))
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity, nil
}

// Scale returns the scale b = sensitivity/epsilon of the Laplace distribution
// the mechanism draws from. The variance of the noise is 2b².
func (laplace) Scale(sensitivity, epsilon float64) float64 {
	return sensitivity / epsilon
}

func (laplace) String() string {
	return "Laplace Noise"
}

func checkArgsLaplace(sensitivity, epsilon float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	return checks.CheckEpsilonVeryStrict(epsilon)
}

// geometric draws a sample drawn from a geometric distribution with parameter
//
//	p = 1 - e^-λ.
//
// More precisely, it returns the number of Bernoulli trials until the first
// success where the success probability is p = 1 - e^-λ. The returned sample
// is truncated to the max int64 value.
//
// Note that to ensure that a truncation happens with probability less than
// 10⁻⁶, λ must be greater than 2⁻⁵⁹.
func geometric(lambda float64) int64 {
	// Return truncated sample in the case that the sample exceeds the max int64.
	if rand.Uniform() > -1.0*math.Expm1(-1.0*lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Perform a binary search for the sample in the interval from 1 to max
	// int64. Each iteration splits the interval in two and randomly keeps
	// either the left or the right subinterval depending on the respective
	// probability of the sample being contained in them. The search ends once
	// the interval only contains a single sample.
	var left int64 = 0              // exclusive bound
	var right int64 = math.MaxInt64 // inclusive bound

	for left+1 < right {
		// Compute a midpoint that divides the probability mass of the current
		// interval approximately evenly between the left and right
		// subinterval. The resulting midpoint will be less or equal to the
		// arithmetic mean of the interval, which reduces the expected number
		// of iterations of the binary search.
		mid := left - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(lambda*float64(left-right))))/lambda))
		// Ensure that mid is contained in the search interval. This is a
		// safeguard to account for potential mathematical inaccuracies due to
		// finite precision arithmetic.
		if mid <= left {
			mid = left + 1
		} else if mid >= right {
			mid = right - 1
		}

		// Probability that the sample is at most mid, i.e.,
		//   q = Pr[X ≤ mid | left < X ≤ right]
		// where X denotes the sample. The value of q should be approximately
		// one half.
		q := math.Expm1(lambda*float64(left-mid)) / math.Expm1(lambda*float64(left-right))
		if rand.Uniform() <= q {
			right = mid
		} else {
			left = mid
		}
	}
	return right
}

// twoSidedGeometric draws a sample from a geometric distribution that is
// mirrored at 0. The non-negative part of the distribution's PDF matches
// the PDF of a geometric distribution of parameter p = 1 - e^-λ that is
// shifted to the left by 1 and scaled accordingly.
func twoSidedGeometric(lambda float64) int64 {
	var sample int64 = 0
	var sign int64 = -1
	// Keep a sample of 0 only if the sign is positive. Otherwise, the
	// probability of 0 would be twice as high as it should be.
	for sample == 0 && sign == -1 {
		sample = geometric(lambda) - 1
		sign = int64(rand.Sign())
	}
	return sample * sign
}

// ceilPowerOfTwo returns the smallest power of 2 larger or equal to x. The
// value of x must be a finite positive number not greater than 2^1023. The
// result of this method is guaranteed to be an exact power of 2.
func ceilPowerOfTwo(x float64) float64 {
	if x <= 0.0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}

	// The following bit masks are based on the bit layout of float64 values,
	// which according to the IEEE 754 standard is defined as "1*s 11*e 52*m"
	// where "s" is the sign bit, "e" are the exponent bits, and "m" are the
	// mantissa bits.
	var exponentMask uint64 = 0x7ff0000000000000
	var mantissaMask uint64 = 0x000fffffffffffff

	bits := math.Float64bits(x)
	mantissaBits := bits & mantissaMask

	// Since x is a finite positive number, x is a power of 2 if and only if
	// it has a mantissa of 0.
	if mantissaBits == 0x0000000000000000 {
		return x
	}

	exponentBits := bits & exponentMask
	maxExponentBits := math.Float64bits(math.MaxFloat64) & exponentMask

	if exponentBits >= maxExponentBits {
		// Input is too large.
		return math.NaN()
	}

	// Increasing the exponent by 1 yields the next power of 2. This is done
	// by adding 0x0010000000000000 to the exponent bits, which keeps a
	// mantissa of all 0s.
	return math.Float64frombits(exponentBits + 0x0010000000000000)
}

// roundToMultipleOfPowerOfTwo returns a multiple of granularity that is
// closest to x. The value of granularity needs to be an exact power of 2,
// otherwise the result might not be exact.
func roundToMultipleOfPowerOfTwo(x, granularity float64) float64 {
	return math.Round(x/granularity) * granularity
}
