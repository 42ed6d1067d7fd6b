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


//go:build amd64 && !purego

package popcnt

// popcntl counts with the POPCNT instruction. Callers must check HasPOPCNT.
func popcntl(x uint32) uint32

// nibbleLookupSSSE3 loads x into the low lane of an XMM register, splits
// every byte into its two nibbles, translates both through a 16-entry count
// table with PSHUFB and adds the byte counts with PSADBW.
// Callers must check HasShuffle.
func nibbleLookupSSSE3(x uint32) uint32

func nativeKernel(caps Capabilities) (func(uint32) uint32, string) {
	if caps.HasPOPCNT {
		return popcntl, "popcnt"
	}
	return nil, ""
}

// vectorKernel uses the 128-bit SSSE3 kernel on AVX2 hosts too: a 32-bit
// word fits in one XMM lane.
func vectorKernel(caps Capabilities) (func(uint32) uint32, string) {
	if caps.HasShuffle {
		return nibbleLookupSSSE3, "nibble-lookup/ssse3"
	}
	return nil, ""
}
