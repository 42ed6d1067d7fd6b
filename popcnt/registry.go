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

package popcnt

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilCounter is returned when registering a nil Counter, a typed nil
	// pointer or a Func without a count function.
	ErrNilCounter = errors.New("popcnt: counter must not be nil")

	// ErrEmptyName is returned when a Counter has an empty name.
	ErrEmptyName = errors.New("popcnt: algorithm name must not be empty")

	// ErrDuplicateName is returned when a name is already registered.
	ErrDuplicateName = errors.New("popcnt: algorithm already registered")

	// ErrFrozen is returned when registering into a frozen Registry.
	ErrFrozen = errors.New("popcnt: registry is frozen")

	// ErrUnknownAlgorithm is returned when a name is not registered.
	ErrUnknownAlgorithm = errors.New("popcnt: unknown algorithm")
)

// Entry is a read-only view of one registered algorithm.
type Entry struct {
	// Name is the unique display label.
	Name string

	// Index is the registration position, starting at 0.
	Index int

	// Count is the bit-counting function.
	Count func(uint32) uint32

	// Setup is the one-time precomputation, nil when the algorithm has none.
	Setup func()

	// Family groups related algorithms in reports, empty when the Counter
	// does not implement Familier.
	Family string

	// Counter is the registered algorithm itself.
	Counter Counter
}

// HasSetup reports whether the entry needs a Setup call before Count.
func (e Entry) HasSetup() bool {
	return e.Setup != nil
}

// Registry is an ordered collection of bit-counting algorithms.
//
// The iteration order is the registration order. A Registry is populated
// once by a single initialization routine (see Standard) and then frozen.
// It is not safe for concurrent registration.
type Registry struct {
	entries []Entry
	index   map[string]int
	frozen  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends c to the registry.
//
// Registering a name twice fails with ErrDuplicateName and leaves the
// existing entry in place.
func (r *Registry) Register(c Counter) error {
	if isNilCounter(c) {
		return ErrNilCounter
	}
	if r.frozen {
		return fmt.Errorf("%w: cannot add %q", ErrFrozen, c.Name())
	}
	name := c.Name()
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	e := Entry{
		Name:    name,
		Index:   len(r.entries),
		Count:   c.CountBits,
		Counter: c,
	}
	if s, ok := c.(Setupper); ok {
		e.Setup = s.Setup
	}
	if f, ok := c.(Familier); ok {
		e.Family = f.Family()
	}
	r.index[name] = e.Index
	r.entries = append(r.entries, e)
	return nil
}

func isNilCounter(c Counter) bool {
	if c == nil {
		return true
	}
	if f, ok := c.(interface{ nilCount() bool }); ok {
		return f.nilCount()
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// RegisterFunc registers a counting function and an optional setup function
// under name. It is shorthand for Register(Func(name, count, setup)).
func (r *Registry) RegisterFunc(name string, count func(uint32) uint32, setup func()) error {
	if count == nil {
		return ErrNilCounter
	}
	return r.Register(Func(name, count, setup))
}

// MustRegister registers c and panics on error. It returns r so that
// registrations can be chained during initialization.
func (r *Registry) MustRegister(c Counter) *Registry {
	if err := r.Register(c); err != nil {
		panic(err)
	}
	return r
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Len returns the number of registered algorithms.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the registered algorithms in registration order.
// The returned slice is a copy.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the algorithm names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Subset returns a new frozen registry holding only the named algorithms,
// kept in their original registration order. Entry indices are renumbered.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
		}
		want[name] = true
	}

	sub := NewRegistry()
	for _, e := range r.entries {
		if want[e.Name] {
			if err := sub.Register(e.Counter); err != nil {
				return nil, err
			}
		}
	}
	return sub.Freeze(), nil
}
