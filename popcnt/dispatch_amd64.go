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

//go:build amd64

package popcnt

import "golang.org/x/sys/cpu"

func detectCPUFeatures() Capabilities {
	caps := Capabilities{
		HasPOPCNT:  cpu.X86.HasPOPCNT,
		HasShuffle: cpu.X86.HasSSSE3,
	}

	switch {
	case cpu.X86.HasPOPCNT && cpu.X86.HasAVX2:
		caps.Level = DispatchAVX2
	case cpu.X86.HasPOPCNT && cpu.X86.HasSSSE3:
		caps.Level = DispatchSSSE3
	case cpu.X86.HasPOPCNT:
		caps.Level = DispatchPOPCNT
	default:
		// Pre-Nehalem parts. SSE2 alone has no byte shuffle, so both
		// hardware algorithms run their portable fallbacks.
		caps.Level = DispatchScalar
	}
	return caps
}
