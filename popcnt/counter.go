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

// Package popcnt provides a collection of population count (bit counting)
// algorithms for 32-bit words and an ordered registry to compare them.
//
// Every algorithm implements Counter. Algorithms that precompute lookup
// tables also implement Setupper; their Setup must run once before the
// first CountBits call.
//
// Usage:
//
//	reg := popcnt.Standard(popcnt.Detect())
//	for _, e := range reg.Entries() {
//	    if e.HasSetup() {
//	        e.Setup()
//	    }
//	    fmt.Println(e.Name, e.Count(0xDEADBEEF))
//	}
package popcnt

import "errors"

// ErrNotSetUp is the panic value (wrapped with the algorithm name) raised
// when a table-driven algorithm is used before its Setup ran.
var ErrNotSetUp = errors.New("popcnt: lookup table used before Setup")

// Counter counts the set bits of a 32-bit word.
//
// CountBits must return a value in [0, 32] and must depend only on its
// argument and on state built by the algorithm's own Setup.
type Counter interface {
	Name() string
	CountBits(x uint32) uint32
}

// Setupper is implemented by algorithms that need one-time precomputation.
// Setup is deterministic: calling it again rebuilds identical state.
type Setupper interface {
	Setup()
}

// Implementer is implemented by algorithms that select between a hardware
// path and a portable fallback. Implementation names the selected path.
type Implementer interface {
	Implementation() string
}

// Familier is implemented by algorithms that belong to a family of
// related techniques. Reports group timings by family.
type Familier interface {
	Family() string
}

// Algorithm families.
const (
	FamilyIterated = "Iterated"
	FamilyParallel = "Parallel"
	FamilyTable    = "Table lookup"
	FamilyHardware = "Hardware"
)

// Func adapts plain functions to a Counter. setup may be nil. Register
// rejects a Func whose count is nil.
func Func(name string, count func(uint32) uint32, setup func()) Counter {
	if setup == nil {
		return funcCounter{name: name, count: count}
	}
	return funcSetupCounter{funcCounter{name: name, count: count}, setup}
}

type funcCounter struct {
	name  string
	count func(uint32) uint32
}

func (f funcCounter) Name() string              { return f.name }
func (f funcCounter) CountBits(x uint32) uint32 { return f.count(x) }
func (f funcCounter) nilCount() bool            { return f.count == nil }

type funcSetupCounter struct {
	funcCounter
	setup func()
}

func (f funcSetupCounter) Setup() { f.setup() }

// Standard builds the registry of every algorithm in this package, in the
// canonical comparison order, and freezes it.
func Standard(caps Capabilities) *Registry {
	return NewRegistry().
		MustRegister(Iterated{}).
		MustRegister(Sparse{}).
		MustRegister(Dense{}).
		MustRegister(NewTable8()).
		MustRegister(NewTable16()).
		MustRegister(Parallel{}).
		MustRegister(Nifty{}).
		MustRegister(Hakmem{}).
		MustRegister(Builtin{}).
		MustRegister(NewPopCnt(caps)).
		MustRegister(NewSIMD(caps)).
		MustRegister(Prefix{}).
		MustRegister(DeBruijn{}).
		MustRegister(NewTable24()).
		Freeze()
}
