// Copyright 2026 Gitdeck, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import "sync"

// Store maps identifiers to their request timestamps (milliseconds since
// epoch). The in-memory implementation below serves a single process; a
// distributed deployment would substitute a shared store behind the same
// interface.
type Store interface {
	// Get returns the recorded timestamps for id, oldest first.
	Get(id string) []int64
	// Set replaces the recorded timestamps for id.
	Set(id string, timestamps []int64)
	// Sweep removes identifiers whose every timestamp is older than cutoff.
	Sweep(cutoff int64)
}

// MemoryStore is a mutex-guarded map-backed Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]int64)}
}

// Get implements Store.
func (s *MemoryStore) Get(id string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id]
}

// Set implements Store.
func (s *MemoryStore) Set(id string, timestamps []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = timestamps
}

// Sweep implements Store. Identifiers whose timestamps have all expired are
// deleted outright; live entries keep only their in-window timestamps.
func (s *MemoryStore) Sweep(cutoff int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timestamps := range s.entries {
		kept := timestamps[:0]
		for _, ts := range timestamps {
			if ts >= cutoff {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(s.entries, id)
		} else {
			s.entries[id] = kept
		}
	}
}

// Len reports how many identifiers are currently tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
