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
	"bytes"
	"math/bits"
	"strings"
	"testing"
	"time"

	"github.com/ajroetker/go-popcount/popcnt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances by step on every reading.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

// frozenClock returns a clock that never advances.
func frozenClock() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time { return t }
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Iterations = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.BlockSize = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	_, err := NewRunner(&Config{Iterations: 0, BlockSize: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRunnerNilConfig(t *testing.T) {
	r, err := NewRunner(nil)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), r.Config())
}

func TestRunEmptyRegistry(t *testing.T) {
	r, err := NewRunner(&Config{Iterations: 10, BlockSize: 10})
	require.NoError(t, err)
	_, err = r.Run(popcnt.NewRegistry())
	assert.ErrorIs(t, err, ErrNoAlgorithms)
}

func TestRunSparseDense(t *testing.T) {
	const (
		iterations = 1000
		seed       = 42
	)
	reg, err := popcnt.Standard(popcnt.Detect()).Subset("Sparse", "Dense")
	require.NoError(t, err)

	// Both algorithms agree with the reference on the exact inputs the
	// runner will use.
	values := Generate(iterations, seed)
	var wantChecksum uint64
	for _, v := range values {
		want := uint32(bits.OnesCount32(v))
		wantChecksum += uint64(want)
		for _, e := range reg.Entries() {
			require.Equal(t, want, e.Count(v), "%s(%#08x)", e.Name, v)
		}
	}

	r, err := NewRunner(&Config{Iterations: iterations, Seed: seed, BlockSize: 128})
	require.NoError(t, err)
	report, err := r.Run(reg)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "Sparse", report.Results[0].Name)
	assert.Equal(t, "Dense", report.Results[1].Name)
	for _, res := range report.Results {
		assert.Greater(t, res.Throughput, 0.0, res.Name)
		assert.Equal(t, iterations, res.Iterations)
		assert.Equal(t, popcnt.FamilyIterated, res.Family, res.Name)
		assert.Equal(t, wantChecksum, res.Checksum, res.Name)
		assert.False(t, res.HasSetup)
	}
	assert.Equal(t, Digest(values), report.WorkloadDigest)
	require.Len(t, report.Ranking, 2)
}

func TestRunTimingWithStepClock(t *testing.T) {
	reg := popcnt.NewRegistry()
	setups := 0
	require.NoError(t, reg.RegisterFunc("counted", popcnt.Builtin{}.CountBits, func() { setups++ }))

	// 1000 iterations in blocks of 100: ten timed blocks of one step each.
	r, err := NewRunner(&Config{Iterations: 1000, Seed: 7, BlockSize: 100},
		WithClock(stepClock(time.Millisecond)))
	require.NoError(t, err)

	report, err := r.Run(reg)
	require.NoError(t, err)
	assert.Equal(t, 1, setups)

	res := report.Results[0]
	assert.True(t, res.HasSetup)
	assert.Equal(t, time.Millisecond, res.SetupElapsed)
	assert.Equal(t, 10*time.Millisecond, res.Elapsed)
	assert.InDelta(t, 0.1, res.Throughput, 1e-12)
	assert.False(t, res.Clamped)
}

func TestRunClampsDegenerateElapsed(t *testing.T) {
	reg := popcnt.NewRegistry().MustRegister(popcnt.Sparse{})
	r, err := NewRunner(&Config{Iterations: 500, BlockSize: 64}, WithClock(frozenClock()))
	require.NoError(t, err)

	report, err := r.Run(reg)
	require.NoError(t, err)

	res := report.Results[0]
	assert.True(t, res.Clamped)
	assert.True(t, report.Clamped())
	assert.Equal(t, MinElapsed, res.Elapsed)
	assert.InDelta(t, 500.0/1e-9/1e6, res.Throughput, 1e-3)
	assert.False(t, res.Throughput != res.Throughput, "throughput must not be NaN")
}

func TestRunSetupOncePerRun(t *testing.T) {
	tbl := &countingTable{Table8: popcnt.NewTable8()}
	reg := popcnt.NewRegistry().MustRegister(tbl)

	r, err := NewRunner(&Config{Iterations: 300, BlockSize: 7})
	require.NoError(t, err)
	_, err = r.Run(reg)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.setups)
}

type countingTable struct {
	*popcnt.Table8
	setups int
}

func (c *countingTable) Setup() {
	c.setups++
	c.Table8.Setup()
}

func TestRunPanicPropagates(t *testing.T) {
	reg := popcnt.NewRegistry()
	require.NoError(t, reg.RegisterFunc("broken", func(uint32) uint32 { panic("boom") }, nil))

	r, err := NewRunner(&Config{Iterations: 10, BlockSize: 10})
	require.NoError(t, err)
	assert.PanicsWithValue(t, "boom", func() { _, _ = r.Run(reg) })
}

func TestRunCallsSetupBeforeTable(t *testing.T) {
	// The runner always calls Setup, so a table algorithm never sees an
	// empty table during a run.
	reg := popcnt.NewRegistry().MustRegister(popcnt.NewTable16())
	r, err := NewRunner(&Config{Iterations: 100, BlockSize: 50})
	require.NoError(t, err)
	var report *Report
	assert.NotPanics(t, func() { report, err = r.Run(reg) })
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].HasSetup)
}

func TestRank(t *testing.T) {
	results := []Result{
		{Name: "a", Index: 0, Throughput: 100},
		{Name: "b", Index: 1, Throughput: 400},
		{Name: "c", Index: 2, Throughput: 100},
		{Name: "d", Index: 3, Throughput: 50},
		{Name: "e", Index: 4, Throughput: 400},
	}
	ranked := Rank(results)
	require.Len(t, ranked, 5)

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, names)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Throughput, ranked[i].Throughput)
		assert.GreaterOrEqual(t, ranked[i].Multiplier, 1.0)
	}
	assert.Equal(t, 8.0, ranked[0].Multiplier)
	assert.Equal(t, 1.0, ranked[len(ranked)-1].Multiplier)

	// Input untouched.
	assert.Equal(t, "a", results[0].Name)
	assert.Nil(t, Rank(nil))
}

func TestRankSingle(t *testing.T) {
	ranked := Rank([]Result{{Name: "only", Throughput: 3}})
	require.Len(t, ranked, 1)
	assert.Equal(t, 1.0, ranked[0].Multiplier)
}

func TestRunRankingIsMonotonic(t *testing.T) {
	reg := popcnt.Standard(popcnt.Detect())
	r, err := NewRunner(&Config{Iterations: 20000, Seed: 3, BlockSize: 4096})
	require.NoError(t, err)

	report, err := r.Run(reg)
	require.NoError(t, err)
	require.Len(t, report.Results, reg.Len())
	require.Len(t, report.Ranking, reg.Len())

	for i := 1; i < len(report.Ranking); i++ {
		assert.GreaterOrEqual(t, report.Ranking[i-1].Throughput, report.Ranking[i].Throughput)
	}
	assert.Equal(t, 1.0, report.Slowest().Multiplier)
	assert.GreaterOrEqual(t, report.Fastest().Multiplier, 1.0)

	// Every algorithm counted the same inputs.
	for _, res := range report.Results {
		assert.Equal(t, report.Results[0].Checksum, res.Checksum, res.Name)
	}
}

func TestWorkloadDeterministic(t *testing.T) {
	a := Generate(1000, 99)
	b := Generate(1000, 99)
	c := Generate(1000, 100)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, Digest(a), Digest(b))
	assert.NotEqual(t, Digest(a), Digest(c))

	// Filling in pieces continues the same stream.
	w := NewWorkload(99)
	first, second := make([]uint32, 300), make([]uint32, 700)
	w.Fill(first)
	w.Fill(second)
	assert.Equal(t, a, append(first, second...))
}

func TestWriteText(t *testing.T) {
	report := &Report{
		Iterations:     1000000,
		Seed:           5,
		WorkloadDigest: 0xABCDEF,
		Results: []Result{
			{Name: "Sparse", Index: 0, Family: popcnt.FamilyIterated, Iterations: 1000000,
				Elapsed: 10 * time.Millisecond, Throughput: 100},
			{Name: "Precomp 8", Index: 1, Family: popcnt.FamilyTable, Iterations: 1000000,
				Elapsed: 5 * time.Millisecond, Throughput: 200,
				HasSetup: true, SetupElapsed: 20 * time.Microsecond},
		},
	}
	report.Ranking = Rank(report.Results)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "1,000,000 iterations")
	assert.Contains(t, out, "---> Precomputation")
	assert.Contains(t, out, "Precomp 8         0.020 ms")
	assert.Contains(t, out, "Sparse          0.010 sec    100.000 Mcps")
	assert.Contains(t, out, " 1. Precomp 8    x    2.00")
	assert.Contains(t, out, " 2. Sparse       x    1.00")
	assert.NotContains(t, out, "clamped")
	assert.Contains(t, out, "---> Iterated methods\nSparse ")
	assert.Contains(t, out, "---> Table lookup methods\nPrecomp 8 ")
}

func TestWriteTextGroupsByFamily(t *testing.T) {
	results := []Result{
		{Name: "Sparse", Index: 0, Family: popcnt.FamilyIterated, Throughput: 1},
		{Name: "Parallel", Index: 1, Family: popcnt.FamilyParallel, Throughput: 2},
		{Name: "Custom", Index: 2, Throughput: 3},
		{Name: "Dense", Index: 3, Family: popcnt.FamilyIterated, Throughput: 4},
	}
	report := &Report{Iterations: 1, Results: results, Ranking: Rank(results)}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, report))
	out := buf.String()

	iterated := strings.Index(out, "---> Iterated methods")
	parallel := strings.Index(out, "---> Parallel methods")
	other := strings.Index(out, "---> Other methods")
	require.True(t, iterated >= 0 && parallel >= 0 && other >= 0, out)
	assert.Less(t, iterated, parallel)
	assert.Less(t, parallel, other)
	assert.Equal(t, 1, strings.Count(out, "---> Iterated methods"))

	// Dense is listed with Sparse, before the Parallel section.
	dense := strings.Index(out, "\nDense ")
	assert.Greater(t, dense, iterated)
	assert.Less(t, dense, parallel)
}

func TestWriteTextMarksClamped(t *testing.T) {
	report := &Report{
		Iterations: 10,
		Results:    []Result{{Name: "Builtin", Elapsed: MinElapsed, Throughput: 10000, Clamped: true}},
	}
	report.Ranking = Rank(report.Results)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, report))
	assert.Contains(t, buf.String(), "Mcps *")
	assert.Contains(t, buf.String(), "clamped to 1ns")
}

func TestWritePrometheus(t *testing.T) {
	report := &Report{
		Iterations: 1000,
		Results: []Result{
			{Name: "Sparse", Index: 0, Elapsed: time.Second, Throughput: 0.001},
			{Name: "Precomp 8", Index: 1, Elapsed: time.Second / 2, Throughput: 0.002,
				HasSetup: true, SetupElapsed: time.Millisecond},
		},
	}
	report.Ranking = Rank(report.Results)

	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "# TYPE popbench_throughput_mcps gauge")
	assert.Contains(t, out, `popbench_throughput_mcps{algorithm="Sparse"} 0.001`)
	assert.Contains(t, out, `popbench_relative_speed{algorithm="Precomp 8"} 2`)
	assert.Contains(t, out, `popbench_setup_seconds{algorithm="Precomp 8"} 0.001`)
	assert.NotContains(t, out, `popbench_setup_seconds{algorithm="Sparse"}`)
	assert.Contains(t, out, `popbench_rank{algorithm="Sparse"} 2`)
	assert.Contains(t, out, "popbench_iterations 1000")
}
