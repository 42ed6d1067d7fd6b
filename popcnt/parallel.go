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

// This file provides the divide-and-conquer (SWAR) algorithms. They sum
// adjacent bit groups in parallel inside one register and run in constant
// time regardless of the input.

// mask returns MaxUint32 / (2^(2^c) + 1): alternating runs of 2^c ones
// and 2^c zeros, starting with ones at bit 0.
//
//	c=0: 0x55555555  c=1: 0x33333333  c=2: 0x0F0F0F0F
//	c=3: 0x00FF00FF  c=4: 0x0000FFFF
func mask(c uint) uint32 {
	width := uint32(1) << (uint(1) << c)
	return ^uint32(0) / (width + 1)
}

var (
	mask0 = mask(0)
	mask1 = mask(1)
	mask2 = mask(2)
	mask3 = mask(3)
	mask4 = mask(4)
)

// Parallel sums groups of 1, 2, 4, 8 then 16 bits, doubling the group size
// at each of its five steps until the total occupies the whole word.
type Parallel struct{}

func (Parallel) Name() string   { return "Parallel" }
func (Parallel) Family() string { return FamilyParallel }

func (Parallel) CountBits(x uint32) uint32 {
	x = (x & mask0) + ((x >> 1) & mask0)
	x = (x & mask1) + ((x >> 2) & mask1)
	x = (x & mask2) + ((x >> 4) & mask2)
	x = (x & mask3) + ((x >> 8) & mask3)
	x = (x & mask4) + ((x >> 16) & mask4)
	return x
}

// Nifty performs the first three Parallel steps with literal masks, leaving
// one count per byte, then adds the bytes with a modulo 255 reduction.
// Since 256 ≡ 1 (mod 255) and the byte sum is at most 32, x % 255 is the sum.
type Nifty struct{}

func (Nifty) Name() string   { return "Nifty" }
func (Nifty) Family() string { return FamilyParallel }

func (Nifty) CountBits(x uint32) uint32 {
	x = (x & 0x55555555) + ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x & 0x0F0F0F0F) + ((x >> 4) & 0x0F0F0F0F)
	return x % 255
}

// Hakmem is HAKMEM item 169: per-octal-digit counts, folded into 6-bit
// fields and reduced modulo 63.
type Hakmem struct{}

func (Hakmem) Name() string   { return "Hakmem" }
func (Hakmem) Family() string { return FamilyParallel }

func (Hakmem) CountBits(x uint32) uint32 {
	t := x - ((x >> 1) & 0o33333333333) - ((x >> 2) & 0o11111111111)
	return ((t + (t >> 3)) & 0o30707070707) % 63
}

// Prefix is the classic SWAR count whose last step sums the four byte
// counts with a multiplication by 0x01010101.
type Prefix struct{}

func (Prefix) Name() string   { return "Prefix" }
func (Prefix) Family() string { return FamilyParallel }

func (Prefix) CountBits(x uint32) uint32 {
	return swar(x)
}

func swar(x uint32) uint32 {
	x -= (x >> 1) & 0x55555555
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0F0F0F0F
	return (x * 0x01010101) >> 24
}
