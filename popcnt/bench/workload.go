// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bench

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// pcgStream is the second PCG word; only the seed varies between runs.
const pcgStream = 0x9E3779B97F4A7C15

// Workload is a deterministic stream of uniformly distributed uint32 values.
// A Workload must not be shared between goroutines.
type Workload struct {
	rng *rand.Rand
}

// NewWorkload returns the stream for seed.
func NewWorkload(seed uint64) *Workload {
	return &Workload{rng: rand.New(rand.NewPCG(seed, pcgStream))}
}

// Fill overwrites buf with the next len(buf) values of the stream.
func (w *Workload) Fill(buf []uint32) {
	for i := range buf {
		buf[i] = w.rng.Uint32()
	}
}

// Generate returns the first n values of the stream for seed.
func Generate(n int, seed uint64) []uint32 {
	values := make([]uint32, n)
	NewWorkload(seed).Fill(values)
	return values
}

// Digest fingerprints a sequence of values, so two runs can confirm that
// they measured the same inputs.
func Digest(values []uint32) uint64 {
	h := xxh3.New()
	writeValues(h, values, nil)
	return h.Sum64()
}

// writeValues feeds values to h in little-endian order, reusing scratch.
func writeValues(h *xxh3.Hasher, values []uint32, scratch []byte) []byte {
	scratch = scratch[:0]
	for _, v := range values {
		scratch = binary.LittleEndian.AppendUint32(scratch, v)
	}
	h.Write(scratch)
	return scratch
}
