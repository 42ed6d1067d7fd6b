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

// SIMD runs the vector nibble-lookup kernel: every byte of the word is
// split into two nibbles, both are translated through a 16-entry count
// table with one byte shuffle (PSHUFB), and the byte counts are summed
// horizontally. Without a kernel for the CPU it falls back to Builtin.
type SIMD struct {
	count func(uint32) uint32
	impl  string
}

// NewSIMD selects the SIMD implementation for caps.
func NewSIMD(caps Capabilities) *SIMD {
	if count, impl := vectorKernel(caps); count != nil {
		return &SIMD{count: count, impl: impl}
	}
	return &SIMD{count: Builtin{}.CountBits, impl: "builtin"}
}

func (*SIMD) Name() string   { return "SIMD" }
func (*SIMD) Family() string { return FamilyHardware }

func (s *SIMD) CountBits(x uint32) uint32 {
	return s.count(x)
}

// Implementation returns "nibble-lookup/ssse3" or "builtin".
func (s *SIMD) Implementation() string { return s.impl }
