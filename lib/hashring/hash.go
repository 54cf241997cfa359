// Copyright (c) 2016-2019 Uber Technologies, Inc.
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
package hashring

import "github.com/cespare/xxhash/v2"

// ringSpaceMask truncates a 64-bit hash down to the ring's 24-bit address
// space. This mask is part of the wire contract: any implementation of this
// registry, in any language, must reproduce it to assign the same ring
// position to the same endpoint string.
const ringSpaceMask = 0x00FF_FFFF

// hashID maps an endpoint (or client identifier) string to its ring
// position. It is pure and deterministic across process restarts: the same
// input always yields the same output.
func hashID(s string) uint32 {
	return uint32(xxhash.Sum64String(s) & ringSpaceMask)
}
