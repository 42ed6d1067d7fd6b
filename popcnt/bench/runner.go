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
	"log/slog"
	"time"

	"github.com/ajroetker/go-popcount/internal/logging"
	"github.com/ajroetker/go-popcount/popcnt"
	"github.com/zeebo/xxh3"
)

// sink receives every checksum so the counting loops have an observable
// effect and cannot be removed by the compiler.
var sink uint64

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the clock. The default is time.Now, whose readings
// carry the monotonic clock.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger for per-algorithm records.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner times every algorithm of a registry.
type Runner struct {
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewRunner validates cfg and returns a Runner. A nil cfg means DefaultConfig.
func NewRunner(cfg *Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    *cfg,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns a copy of the runner configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run benchmarks every algorithm of reg in registration order.
//
// For each algorithm, Setup (if any) runs once and is timed on its own,
// then CountBits is called Iterations times over the seeded workload.
// A panic raised by an algorithm aborts the run.
func (r *Runner) Run(reg *popcnt.Registry) (*Report, error) {
	entries := reg.Entries()
	if len(entries) == 0 {
		return nil, ErrNoAlgorithms
	}

	report := &Report{
		Iterations: r.cfg.Iterations,
		Seed:       r.cfg.Seed,
		BlockSize:  r.cfg.BlockSize,
		Results:    make([]Result, 0, len(entries)),
	}

	block := make([]uint32, min(r.cfg.BlockSize, r.cfg.Iterations))
	digest := xxh3.New()
	for i, e := range entries {
		// Every algorithm sees the same inputs, so one digest covers all.
		h := digest
		if i > 0 {
			h = nil
		}
		report.Results = append(report.Results, r.runEntry(e, block, h))
	}
	report.WorkloadDigest = digest.Sum64()
	report.Ranking = Rank(report.Results)

	r.logger.Info("benchmark finished",
		"algorithms", len(entries),
		"fastest", report.Fastest().Name,
		"slowest", report.Slowest().Name,
	)
	return report, nil
}

// runEntry measures a single algorithm. h, when non-nil, receives the
// generated inputs.
func (r *Runner) runEntry(e popcnt.Entry, block []uint32, h *xxh3.Hasher) Result {
	res := Result{
		Name:       e.Name,
		Index:      e.Index,
		Family:     e.Family,
		Iterations: r.cfg.Iterations,
		HasSetup:   e.HasSetup(),
	}

	if e.Setup != nil {
		start := r.now()
		e.Setup()
		res.SetupElapsed = r.now().Sub(start)
	}

	w := NewWorkload(r.cfg.Seed)
	var (
		sum     uint64
		elapsed time.Duration
		scratch []byte
	)
	for remaining := r.cfg.Iterations; remaining > 0; {
		values := block[:min(remaining, len(block))]
		w.Fill(values)
		if h != nil {
			scratch = writeValues(h, values, scratch)
		}

		start := r.now()
		sum += countAll(e.Count, values)
		elapsed += r.now().Sub(start)

		remaining -= len(values)
	}
	sink += sum
	res.Checksum = sum

	if elapsed <= 0 {
		r.logger.Warn("elapsed time below clock resolution, clamping",
			"algorithm", e.Name,
			"measured", elapsed,
			"clamped_to", MinElapsed,
		)
		elapsed = MinElapsed
		res.Clamped = true
	}
	res.Elapsed = elapsed
	res.Throughput = float64(r.cfg.Iterations) / elapsed.Seconds() / 1e6

	r.logger.Debug("algorithm measured",
		"algorithm", e.Name,
		"setup", res.SetupElapsed,
		"elapsed", res.Elapsed,
		"mcps", res.Throughput,
		"checksum", res.Checksum,
	)
	return res
}

// countAll is the timed loop.
func countAll(count func(uint32) uint32, values []uint32) uint64 {
	var sum uint64
	for _, v := range values {
		sum += uint64(count(v))
	}
	return sum
}
