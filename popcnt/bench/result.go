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
	"cmp"
	"slices"
	"time"
)

// Result is the measurement of one algorithm.
type Result struct {
	// Name is the algorithm name.
	Name string

	// Index is the registration position of the algorithm.
	Index int

	// Family is the algorithm family, empty when unknown.
	Family string

	// Iterations is the number of CountBits calls timed.
	Iterations int

	// Elapsed is the time spent in the counting loop, excluding setup and
	// workload generation. It is MinElapsed when Clamped.
	Elapsed time.Duration

	// HasSetup reports whether the algorithm ran a precomputation.
	HasSetup bool

	// SetupElapsed is the time spent in Setup.
	SetupElapsed time.Duration

	// Throughput is in millions of calls per second (Mcps).
	Throughput float64

	// Clamped is set when the measured elapsed time was zero or negative
	// and MinElapsed was used instead. Throughput is then a lower bound
	// of the clock resolution, not a measurement.
	Clamped bool

	// Checksum is the sum of every returned count.
	Checksum uint64
}

// Ranked is a Result placed in the fastest-to-slowest order.
type Ranked struct {
	Result

	// Rank is the 1-based position, 1 being the fastest.
	Rank int

	// Multiplier is Throughput relative to the slowest result; the slowest
	// has 1.0 and every other result at least 1.0.
	Multiplier float64
}

// Rank orders results by throughput, fastest first. Ties keep registration
// order. The input slice is not modified.
func Rank(results []Result) []Ranked {
	if len(results) == 0 {
		return nil
	}

	ranked := make([]Ranked, len(results))
	for i, r := range results {
		ranked[i] = Ranked{Result: r}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Or(
			cmp.Compare(b.Throughput, a.Throughput),
			cmp.Compare(a.Index, b.Index),
		)
	})

	slowest := ranked[len(ranked)-1].Throughput
	for i := range ranked {
		ranked[i].Rank = i + 1
		if slowest > 0 {
			ranked[i].Multiplier = ranked[i].Throughput / slowest
		} else {
			ranked[i].Multiplier = 1
		}
	}
	return ranked
}

// Report is the outcome of Runner.Run.
type Report struct {
	// Iterations, Seed and BlockSize echo the configuration.
	Iterations int
	Seed       uint64
	BlockSize  int

	// WorkloadDigest is the xxh3 digest of the input sequence.
	WorkloadDigest uint64

	// Results are in registration order.
	Results []Result

	// Ranking is Results ordered fastest to slowest.
	Ranking []Ranked
}

// Fastest returns the first ranked result.
func (r *Report) Fastest() Ranked {
	return r.Ranking[0]
}

// Slowest returns the last ranked result.
func (r *Report) Slowest() Ranked {
	return r.Ranking[len(r.Ranking)-1]
}

// Clamped reports whether any result carries a clamped elapsed time.
func (r *Report) Clamped() bool {
	for _, res := range r.Results {
		if res.Clamped {
			return true
		}
	}
	return false
}
