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

import "math/bits"

// This file provides the hardware-backed algorithms. The instruction
// kernels live in kernels_*.go.

// Builtin delegates to the compiler intrinsic unconditionally and lets the
// Go runtime pick between the instruction and its table fallback.
type Builtin struct{}

func (Builtin) Name() string   { return "Builtin" }
func (Builtin) Family() string { return FamilyHardware }

func (Builtin) CountBits(x uint32) uint32 {
	return uint32(bits.OnesCount32(x))
}

func (Builtin) Implementation() string { return "builtin" }

// PopCnt calls the native population count instruction directly when the
// CPU reports one (POPCNTL on amd64) and the SWAR sequence of Prefix
// otherwise. The choice is made once, at construction. On arm64 the native
// path is the compiler intrinsic, so PopCnt and Builtin measure the same
// instruction there.
type PopCnt struct {
	count func(uint32) uint32
	impl  string
}

// NewPopCnt selects the PopCnt implementation for caps.
func NewPopCnt(caps Capabilities) *PopCnt {
	if count, impl := nativeKernel(caps); count != nil {
		return &PopCnt{count: count, impl: impl}
	}
	return &PopCnt{count: swar, impl: "swar"}
}

func (*PopCnt) Name() string   { return "PopCnt" }
func (*PopCnt) Family() string { return FamilyHardware }

func (p *PopCnt) CountBits(x uint32) uint32 {
	return p.count(x)
}

// Implementation returns "popcnt", "intrinsic" or "swar".
func (p *PopCnt) Implementation() string { return p.impl }

