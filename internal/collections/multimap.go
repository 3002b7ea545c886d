// Package collections provides the small set of container types the
// workloads aggregate into: an insertion-ordered multimap, an
// insertion-ordered multiset and immutable list/set snapshots.
//
// None of the types are safe for concurrent use. Each instance is expected to
// be owned by a single workload on a single worker.
package collections

import "iter"

// Multimap associates each key with an ordered group of values. Keys iterate
// in the order they were first inserted and values within a group keep their
// insertion order.
type Multimap[K comparable, V any] struct {
	keys   []K
	groups map[K][]V
	size   int
}

// NewMultimap returns an empty multimap sized for roughly expectedKeys keys.
func NewMultimap[K comparable, V any](expectedKeys int) *Multimap[K, V] {
	return &Multimap[K, V]{
		keys:   make([]K, 0, max(expectedKeys, 0)),
		groups: make(map[K][]V, max(expectedKeys, 0)),
	}
}

// Put appends value to the group for key.
func (m *Multimap[K, V]) Put(key K, value V) {
	group, ok := m.groups[key]
	if !ok {
		m.keys = append(m.keys, key)
	}
	m.groups[key] = append(group, value)
	m.size++
}

// Get returns the group for key. The returned slice aliases internal storage
// and must not be modified.
func (m *Multimap[K, V]) Get(key K) []V {
	return m.groups[key]
}

// Len returns the total number of values across all keys.
func (m *Multimap[K, V]) Len() int {
	return m.size
}

// KeyCount returns the number of distinct keys.
func (m *Multimap[K, V]) KeyCount() int {
	return len(m.keys)
}

// Groups iterates keys in first-insertion order together with their groups.
func (m *Multimap[K, V]) Groups() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.groups[k]) {
				return
			}
		}
	}
}

// Clear removes every entry while keeping the allocated key index.
func (m *Multimap[K, V]) Clear() {
	clear(m.groups)
	m.keys = m.keys[:0]
	m.size = 0
}
