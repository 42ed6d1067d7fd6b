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


//go:build !amd64 || purego

package popcnt

// nativeKernel relies on the compiler on these targets: bits.OnesCount32
// lowers to CNT on arm64, the same code Builtin runs.
func nativeKernel(caps Capabilities) (func(uint32) uint32, string) {
	if caps.HasPOPCNT {
		return Builtin{}.CountBits, "intrinsic"
	}
	return nil, ""
}

// vectorKernel has no hand-written kernel on these targets.
func vectorKernel(Capabilities) (func(uint32) uint32, string) {
	return nil, ""
}
