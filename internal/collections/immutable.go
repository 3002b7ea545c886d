package collections

import "iter"

// ImmutableList is a read-only ordered snapshot. It owns a private copy of
// its elements, so later changes to the source slice are not observed.
type ImmutableList[T any] struct {
	elems []T
}

// NewImmutableList copies src into a new list.
func NewImmutableList[T any](src []T) ImmutableList[T] {
	elems := make([]T, len(src))
	copy(elems, src)
	return ImmutableList[T]{elems: elems}
}

// Len returns the number of elements.
func (l ImmutableList[T]) Len() int {
	return len(l.elems)
}

// At returns the element at index i.
func (l ImmutableList[T]) At(i int) T {
	return l.elems[i]
}

// All iterates the elements in order.
func (l ImmutableList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.elems {
			if !yield(i, v) {
				return
			}
		}
	}
}

// ImmutableSet is a read-only set snapshot. Elements iterate in the order of
// their first occurrence in the source.
type ImmutableSet[T comparable] struct {
	elems []T
	index map[T]struct{}
}

// NewImmutableSet builds a set from the elements of src, dropping duplicates.
func NewImmutableSet[T comparable](src []T) ImmutableSet[T] {
	s := ImmutableSet[T]{
		elems: make([]T, 0, len(src)),
		index: make(map[T]struct{}, len(src)),
	}
	for _, v := range src {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.elems = append(s.elems, v)
	}
	return s
}

// SetOf builds a set from the elements of l.
func SetOf[T comparable](l ImmutableList[T]) ImmutableSet[T] {
	return NewImmutableSet(l.elems)
}

// Contains reports whether v is in the set.
func (s ImmutableSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct elements.
func (s ImmutableSet[T]) Len() int {
	return len(s.elems)
}

// All iterates the elements in first-occurrence order.
func (s ImmutableSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.elems {
			if !yield(v) {
				return
			}
		}
	}
}
