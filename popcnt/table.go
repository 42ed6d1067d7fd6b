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

import "fmt"

// This file provides the table lookup algorithms. Each one owns its tables;
// Setup fills them and CountBits only reads them.

// fillTable stores the bit count of every index of t, len(t) a power of two.
func fillTable(t []uint8) {
	for i := 1; i < len(t); i++ {
		t[i] = t[i>>1] + uint8(i&1)
	}
}

func notSetUp(name string) error {
	return fmt.Errorf("%w: %s", ErrNotSetUp, name)
}

// Table8 splits the word into four bytes and looks each one up in a
// 256-entry table.
type Table8 struct {
	bits []uint8
}

// NewTable8 returns a Table8 whose table is not built yet.
func NewTable8() *Table8 {
	return &Table8{}
}

func (*Table8) Name() string   { return "Precomp 8" }
func (*Table8) Family() string { return FamilyTable }

// Setup builds the 256-entry table.
func (t *Table8) Setup() {
	bits := make([]uint8, 1<<8)
	fillTable(bits)
	t.bits = bits
}

// TableBytes returns the size of the precomputed state.
func (*Table8) TableBytes() int { return 1 << 8 }

// CountBits panics with ErrNotSetUp if Setup has not been called.
func (t *Table8) CountBits(x uint32) uint32 {
	b := t.bits
	if b == nil {
		panic(notSetUp(t.Name()))
	}
	return uint32(b[x&0xFF]) +
		uint32(b[(x>>8)&0xFF]) +
		uint32(b[(x>>16)&0xFF]) +
		uint32(b[x>>24])
}

// Table16 splits the word into two halves and looks each one up in a
// 65536-entry table.
type Table16 struct {
	bits []uint8
}

// NewTable16 returns a Table16 whose table is not built yet.
func NewTable16() *Table16 {
	return &Table16{}
}

func (*Table16) Name() string   { return "Precomp 16" }
func (*Table16) Family() string { return FamilyTable }

// Setup builds the 65536-entry table.
func (t *Table16) Setup() {
	bits := make([]uint8, 1<<16)
	fillTable(bits)
	t.bits = bits
}

// TableBytes returns the size of the precomputed state.
func (*Table16) TableBytes() int { return 1 << 16 }

// CountBits panics with ErrNotSetUp if Setup has not been called.
func (t *Table16) CountBits(x uint32) uint32 {
	b := t.bits
	if b == nil {
		panic(notSetUp(t.Name()))
	}
	return uint32(b[x&0xFFFF]) + uint32(b[x>>16])
}

// Table24 looks the low 24 bits up in a 16 Mi-entry table and the top byte
// in its own 256-entry table, since 24+8 = 32.
type Table24 struct {
	low  []uint8
	high []uint8
}

// NewTable24 returns a Table24 whose tables are not built yet.
func NewTable24() *Table24 {
	return &Table24{}
}

func (*Table24) Name() string   { return "Precomp 24" }
func (*Table24) Family() string { return FamilyTable }

// Setup builds both tables.
func (t *Table24) Setup() {
	low := make([]uint8, 1<<24)
	fillTable(low)
	high := make([]uint8, 1<<8)
	fillTable(high)
	t.low, t.high = low, high
}

// TableBytes returns the size of the precomputed state.
func (*Table24) TableBytes() int { return 1<<24 + 1<<8 }

// CountBits panics with ErrNotSetUp if Setup has not been called.
func (t *Table24) CountBits(x uint32) uint32 {
	low, high := t.low, t.high
	if low == nil || high == nil {
		panic(notSetUp(t.Name()))
	}
	return uint32(low[x&0xFFFFFF]) + uint32(high[x>>24])
}
