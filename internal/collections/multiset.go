package collections

import "iter"

type multisetEntry[E comparable] struct {
	elem  E
	count int
}

// Multiset tracks per-element occurrence counts. Distinct elements iterate in
// the order they were first added, which gives callers a stable
// first-seen tie-break.
//
// Removing an element's last occurrence leaves a tombstone in the entry list;
// tombstones are skipped during iteration and dropped by Clear.
type Multiset[E comparable] struct {
	entries []multisetEntry[E]
	index   map[E]int
	size    int
	live    int
}

// NewMultiset returns an empty multiset sized for roughly expected distinct
// elements.
func NewMultiset[E comparable](expected int) *Multiset[E] {
	return &Multiset[E]{
		entries: make([]multisetEntry[E], 0, max(expected, 0)),
		index:   make(map[E]int, max(expected, 0)),
	}
}

// Add records one occurrence of elem.
func (s *Multiset[E]) Add(elem E) {
	s.AddN(elem, 1)
}

// AddN records n occurrences of elem. Non-positive n is a no-op.
func (s *Multiset[E]) AddN(elem E, n int) {
	if n <= 0 {
		return
	}
	if i, ok := s.index[elem]; ok {
		s.entries[i].count += n
	} else {
		s.index[elem] = len(s.entries)
		s.entries = append(s.entries, multisetEntry[E]{elem: elem, count: n})
		s.live++
	}
	s.size += n
}

// Count returns the number of occurrences of elem.
func (s *Multiset[E]) Count(elem E) int {
	if i, ok := s.index[elem]; ok {
		return s.entries[i].count
	}
	return 0
}

// Remove removes up to n occurrences of elem and returns the count held
// before the call.
func (s *Multiset[E]) Remove(elem E, n int) int {
	i, ok := s.index[elem]
	if !ok || n <= 0 {
		return s.Count(elem)
	}

	prev := s.entries[i].count
	removed := min(n, prev)
	s.entries[i].count -= removed
	s.size -= removed

	if s.entries[i].count == 0 {
		delete(s.index, elem)
		s.live--
	}
	return prev
}

// Len returns the total number of occurrences.
func (s *Multiset[E]) Len() int {
	return s.size
}

// Distinct returns the number of distinct elements with a positive count.
func (s *Multiset[E]) Distinct() int {
	return s.live
}

// Entries iterates distinct elements and their counts in first-added order.
func (s *Multiset[E]) Entries() iter.Seq2[E, int] {
	return func(yield func(E, int) bool) {
		for _, e := range s.entries {
			if e.count == 0 {
				continue
			}
			if !yield(e.elem, e.count) {
				return
			}
		}
	}
}

// Clear removes every element.
func (s *Multiset[E]) Clear() {
	s.entries = s.entries[:0]
	clear(s.index)
	s.size = 0
	s.live = 0
}
