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

// Package bloomfilter provides a small thread-safe Bloom filter used to
// cheaply reject operations on endpoints the registry has never seen,
// without paying for a namespace Ring lookup.
package bloomfilter

import (
	"sync"

	"github.com/spaolacci/murmur3"
	"github.com/willf/bitset"
)

const numHashes = 3

// Filter is a thread-safe Bloom filter over endpoint strings.
//
// False positives are possible (MayContain can return true for an endpoint
// never Added); false negatives are not (an Added endpoint always tests
// true). Callers must treat a negative result as authoritative and a
// positive result as "go check the real data structure."
type Filter struct {
	mu   sync.RWMutex
	bits *bitset.BitSet
	m    uint
}

// New creates a Filter sized for roughly expectedN entries.
func New(expectedN uint) *Filter {
	if expectedN == 0 {
		expectedN = 1
	}
	// ~10 bits per entry keeps the false positive rate under 2% (about 1.7%)
	// for numHashes=3.
	m := expectedN * 10
	return &Filter{
		bits: bitset.New(m),
		m:    m,
	}
}

// Add records endpoint as a member of the filter.
func (f *Filter) Add(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, idx := range f.indexes(endpoint) {
		f.bits.Set(idx)
	}
}

// MayContain returns false if endpoint was definitely never Added, and true
// if it was probably Added (subject to the filter's false positive rate).
func (f *Filter) MayContain(endpoint string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, idx := range f.indexes(endpoint) {
		if !f.bits.Test(idx) {
			return false
		}
	}
	return true
}

// indexes computes numHashes independent bit positions for endpoint using
// murmur3 seeded differently per hash, the double-hashing technique
// (Kirsch-Mitzenmacher) applied to a single murmur3 pass would also work,
// but re-seeding keeps each hash call simple to reason about.
func (f *Filter) indexes(endpoint string) []uint {
	data := []byte(endpoint)
	idx := make([]uint, numHashes)
	for i := 0; i < numHashes; i++ {
		h := murmur3.New64WithSeed(uint32(i))
		h.Write(data)
		idx[i] = uint(h.Sum64() % uint64(f.m))
	}
	return idx
}
