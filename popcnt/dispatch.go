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

import "github.com/klauspost/cpuid/v2"

// DispatchLevel represents the best bit-counting instruction set detected.
type DispatchLevel int

const (
	// DispatchScalar indicates no hardware popcount, pure Go implementations only.
	DispatchScalar DispatchLevel = iota

	// DispatchPOPCNT indicates the x86 POPCNT instruction without byte shuffles.
	DispatchPOPCNT

	// DispatchSSSE3 indicates POPCNT plus SSSE3 PSHUFB (128-bit nibble lookup).
	DispatchSSSE3

	// DispatchAVX2 indicates POPCNT plus AVX2. A 32-bit word fits in one
	// XMM lane, so the nibble lookup uses the SSSE3 kernel here too.
	DispatchAVX2

	// DispatchNEON indicates ARM NEON CNT and TBL instructions.
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchPOPCNT:
		return "popcnt"
	case DispatchSSSE3:
		return "ssse3"
	case DispatchAVX2:
		return "avx2"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Capabilities describes what the running CPU offers to the hardware-backed
// algorithms. It is passed to Standard explicitly so that the same process
// can build both an accelerated and a scalar registry.
type Capabilities struct {
	// Level is the best dispatch level available.
	Level DispatchLevel

	// HasPOPCNT reports a native population count instruction
	// (x86 POPCNT, ARM64 CNT).
	HasPOPCNT bool

	// HasShuffle reports a 16-byte table lookup instruction usable for the
	// nibble-lookup kernel (x86 PSHUFB, ARM64 TBL).
	HasShuffle bool

	// CPUName is the processor brand string, empty when unknown.
	CPUName string
}

// Detect returns the capabilities of the running CPU.
// The architecture specific part lives in dispatch_*.go.
func Detect() Capabilities {
	caps := detectCPUFeatures()
	caps.CPUName = cpuid.CPU.BrandName
	return caps
}

// Scalar returns a copy of c with every acceleration disabled.
// Useful for testing and debugging the portable fallbacks.
func (c Capabilities) Scalar() Capabilities {
	return Capabilities{
		Level:   DispatchScalar,
		CPUName: c.CPUName,
	}
}

// String returns the dispatch level name, e.g. "avx2" or "scalar".
func (c Capabilities) String() string {
	return c.Level.String()
}
