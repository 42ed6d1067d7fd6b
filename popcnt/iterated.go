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

// This file provides the iterative algorithms: their running time depends on
// the input, either on the bit width or on the number of set (or cleared) bits.

// Iterated tests each of the 32 bits in turn.
type Iterated struct{}

func (Iterated) Name() string   { return "Iterated" }
func (Iterated) Family() string { return FamilyIterated }

// CountBits shifts x right until it is zero, adding the low bit each time.
func (Iterated) CountBits(x uint32) uint32 {
	var count uint32
	for x != 0 {
		count += x & 1
		x >>= 1
	}
	return count
}

// Sparse is Kernighan's method: each iteration clears the lowest set bit,
// so it loops once per set bit and is fastest on sparse inputs.
type Sparse struct{}

func (Sparse) Name() string   { return "Sparse" }
func (Sparse) Family() string { return FamilyIterated }

func (Sparse) CountBits(x uint32) uint32 {
	return sparse(x)
}

func sparse(x uint32) uint32 {
	var count uint32
	for x != 0 {
		count++
		x &= x - 1
	}
	return count
}

// Dense counts the cleared bits with Kernighan's method and subtracts them
// from the word width. It loops once per zero bit.
type Dense struct{}

func (Dense) Name() string   { return "Dense" }
func (Dense) Family() string { return FamilyIterated }

func (Dense) CountBits(x uint32) uint32 {
	return 32 - sparse(^x)
}

// deBruijn32 is the De Bruijn sequence B(2, 5).
const deBruijn32 = 0x077CB531

// deBruijnIndex maps (lsb * deBruijn32) >> 27 to the index of lsb.
var deBruijnIndex = [32]uint8{
	0, 1, 28, 2, 29, 14, 24, 3, 30, 22, 20, 15, 25, 17, 4, 8,
	31, 27, 13, 23, 21, 19, 16, 7, 26, 12, 18, 6, 11, 5, 10, 9,
}

// DeBruijn isolates the lowest set bit, finds its index with a De Bruijn
// multiplicative hash and clears it by index. It loops once per set bit.
type DeBruijn struct{}

func (DeBruijn) Name() string   { return "DeBruijn" }
func (DeBruijn) Family() string { return FamilyIterated }

func (DeBruijn) CountBits(x uint32) uint32 {
	var count uint32
	for x != 0 {
		lsb := x & -x
		idx := deBruijnIndex[(lsb*deBruijn32)>>27]
		x ^= 1 << idx
		count++
	}
	return count
}
