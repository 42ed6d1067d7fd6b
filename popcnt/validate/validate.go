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

// Package validate checks that every algorithm of a popcnt.Registry agrees
// with a trusted reference population count.
//
// Run compares a fixed pseudo-random sample plus boundary values; Sweep
// checks a contiguous input range, up to the whole 32-bit domain, in
// parallel.
package validate

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ajroetker/go-popcount/popcnt"
	"github.com/ajroetker/go-popcount/popcnt/bench"
)

// ErrInvalidOptions indicates unusable validation options.
var ErrInvalidOptions = errors.New("validate: invalid options")

// BoundaryValues are checked before the random sample.
var BoundaryValues = []uint32{0, 1, 0x80000000, 0xFFFFFFFF}

// Reference is the trusted population count.
func Reference(x uint32) uint32 {
	return uint32(bits.OnesCount32(x))
}

// MismatchError reports an algorithm disagreeing with Reference.
type MismatchError struct {
	Algorithm string
	Input     uint32
	Got       uint32
	Want      uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("validate: %s(%#08x) = %d, want %d", e.Algorithm, e.Input, e.Got, e.Want)
}

// Options configures Run.
type Options struct {
	// Samples is the length of the pseudo-random sequence.
	Samples int

	// Seed seeds the sequence; the same seed checks the same values.
	Seed uint64
}

// DefaultOptions returns 100,000 samples with seed 12345.
func DefaultOptions() Options {
	return Options{Samples: 100000, Seed: 12345}
}

// Setup runs the Setup of every entry of reg that has one.
func Setup(reg *popcnt.Registry) {
	for _, e := range reg.Entries() {
		if e.HasSetup() {
			e.Setup()
		}
	}
}

// Run sets up every algorithm, then checks each one against Reference on
// BoundaryValues followed by opts.Samples values of the seeded workload.
// Every algorithm sees the identical sequence.
//
// The result joins one *MismatchError per failing algorithm (its first
// mismatch); use errors.As to inspect it.
func Run(reg *popcnt.Registry, opts Options) error {
	if opts.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidOptions, opts.Samples)
	}
	Setup(reg)

	values := make([]uint32, 0, len(BoundaryValues)+opts.Samples)
	values = append(values, BoundaryValues...)
	values = append(values, bench.Generate(opts.Samples, opts.Seed)...)

	want := make([]uint32, len(values))
	for i, v := range values {
		want[i] = Reference(v)
	}

	var errs []error
	for _, e := range reg.Entries() {
		if err := check(e, values, want); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func check(e popcnt.Entry, values, want []uint32) error {
	for i, v := range values {
		if got := e.Count(v); got != want[i] {
			return &MismatchError{Algorithm: e.Name, Input: v, Got: got, Want: want[i]}
		}
	}
	return nil
}
