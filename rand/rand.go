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

// Package rand provides the cryptographically secure random primitives the
// noise mechanisms are built on.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	"sync"

	log "github.com/golang/glog"
)

var (
	bufLock sync.Mutex
	buf     io.Reader = bufio.NewReaderSize(cryptorand.Reader, 65536)

	bitLock sync.Mutex
	bitBuf  uint8
	bitPos  int8 = math.MaxInt8
)

func read(b []byte) (int, error) {
	bufLock.Lock()
	defer bufLock.Unlock()
	return io.ReadFull(buf, b)
}

// U64 returns a uniformly random uint64.
func U64() uint64 {
	var r [8]uint8
	if _, err := read(r[:]); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
	return binary.LittleEndian.Uint64(r[:])
}

// U8 returns a uniformly random uint8.
func U8() uint8 {
	var r [1]uint8
	if _, err := read(r[:]); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
	return r[0]
}

// Boolean returns true or false with equal probability.
func Boolean() bool {
	bitLock.Lock()
	defer bitLock.Unlock()
	if bitPos > 7 { // Out of random bits.
		bitBuf = U8()
		bitPos = 0
	}
	res := bitBuf&(1<<bitPos) > 0
	bitPos++
	return res
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func Sign() float64 {
	if Boolean() {
		return 1.0
	}
	return -1.0
}

// Uniform returns a float64 from the interval (0,1] such that each float in
// the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
//
// Zero is excluded so that callers may take the logarithm of the output.
func Uniform() float64 {
	i := U64() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Pow(2, Geometric())
	if r == 0 {
		return 1
	}
	return r
}

// Geometric returns a float64 that counts the number of Bernoulli trials
// until the first success for a success probability of 0.5.
func Geometric() float64 {
	// 1 plus the number of leading zeros from an infinite stream of random
	// bits follows the desired geometric distribution.
	b := 1
	var r uint8
	for r == 0 {
		r = U8()
		b += bits.LeadingZeros8(r)
	}
	return float64(b)
}
