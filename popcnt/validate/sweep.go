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

package validate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ajroetker/go-popcount/popcnt"
	"golang.org/x/sync/errgroup"
)

// SweepOptions configures Sweep.
type SweepOptions struct {
	// Lo and Hi bound the checked inputs, both inclusive.
	Lo, Hi uint32

	// Workers is the number of goroutines. If <= 0, uses GOMAXPROCS.
	Workers int
}

// FullDomain covers every uint32.
func FullDomain() SweepOptions {
	return SweepOptions{Lo: 0, Hi: 0xFFFFFFFF}
}

// ctxCheckInterval is how many inputs a worker checks between looks at
// the context.
const ctxCheckInterval = 1 << 16

// Sweep checks every input in [opts.Lo, opts.Hi] against Reference for
// every algorithm of reg.
//
// All Setup calls complete before the workers start; afterwards the
// precomputed tables are only read. Each worker owns a disjoint part of
// the range. The first mismatch cancels the remaining workers and is
// returned as a *MismatchError.
func Sweep(ctx context.Context, reg *popcnt.Registry, opts SweepOptions) error {
	if opts.Lo > opts.Hi {
		return fmt.Errorf("%w: empty range [%#x, %#x]", ErrInvalidOptions, opts.Lo, opts.Hi)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	Setup(reg)
	entries := reg.Entries()

	// Don't use more workers than inputs.
	total := uint64(opts.Hi) - uint64(opts.Lo) + 1
	workers = int(min(uint64(workers), total))
	chunkSize := (total + uint64(workers) - 1) / uint64(workers)

	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		start := uint64(i) * chunkSize
		if start >= total {
			break
		}
		end := min(start+chunkSize, total)
		g.Go(func() error {
			return sweepRange(ctx, entries, uint64(opts.Lo)+start, uint64(opts.Lo)+end)
		})
	}
	return g.Wait()
}

// sweepRange checks [start, end) for every entry.
func sweepRange(ctx context.Context, entries []popcnt.Entry, start, end uint64) error {
	for x := start; x < end; x++ {
		if (x-start)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v := uint32(x)
		want := Reference(v)
		for _, e := range entries {
			if got := e.Count(v); got != want {
				return &MismatchError{Algorithm: e.Name, Input: v, Got: got, Want: want}
			}
		}
	}
	return nil
}
