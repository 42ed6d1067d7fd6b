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

// Package bench times the algorithms of a popcnt.Registry over a large
// pseudo-random workload and ranks them by throughput.
//
// Usage:
//
//	reg := popcnt.Standard(popcnt.Detect())
//	runner, err := bench.NewRunner(bench.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := runner.Run(reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bench.WriteText(os.Stdout, report)
//
// Every algorithm sees the identical sequence of inputs: the workload is
// re-seeded for each one and generated block by block outside the timed
// region. Algorithms run one after the other on the calling goroutine.
package bench

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig indicates an invalid benchmark configuration.
	ErrInvalidConfig = errors.New("bench: invalid configuration")

	// ErrNoAlgorithms indicates an empty registry.
	ErrNoAlgorithms = errors.New("bench: no algorithms registered")
)

const (
	// DefaultIterations is the number of CountBits calls per algorithm.
	DefaultIterations = 100 * 1000 * 1000

	// DefaultBlockSize is the number of inputs generated per timed block.
	DefaultBlockSize = 1 << 16

	// MinElapsed is the elapsed time substituted for a zero or negative
	// measurement. Results carrying it are marked Clamped.
	MinElapsed = time.Nanosecond
)

// Config holds benchmark configuration.
type Config struct {
	// Iterations is the number of CountBits calls per algorithm.
	// Default: 100,000,000
	Iterations int

	// Seed seeds the workload. The same seed yields the same inputs.
	Seed uint64

	// BlockSize is the number of inputs generated ahead of each timed
	// block. Larger blocks mean fewer clock reads and more memory.
	// Default: 65536
	BlockSize int
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Iterations: DefaultIterations,
		Seed:       1,
		BlockSize:  DefaultBlockSize,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidConfig, c.BlockSize)
	}
	return nil
}
