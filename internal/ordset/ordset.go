// SPDX-License-Identifier: MPL-2.0

// Package ordset provides an insertion-ordered string set.
//
// Dependency and membership tracking in the bundling engine is order-irrelevant
// for correctness but must be deterministic for output stability: the solver
// breaks ties by the order items were first seen. Set keeps both properties
// explicit instead of abusing a slice as a set.
package ordset

type (
	// Set is an insertion-ordered set of strings. The zero value is not
	// usable; construct with New.
	Set struct {
		// order tracks keys in first-insertion order.
		order []string
		// index provides O(1) membership checks.
		index map[string]bool
	}
)

// New creates a Set containing the given keys, in order, with duplicates
// collapsed to their first occurrence.
func New(keys ...string) *Set {
	s := &Set{index: make(map[string]bool, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key if absent. Returns true if the key was newly added.
func (s *Set) Add(key string) bool {
	if s.index[key] {
		return false
	}
	s.index[key] = true
	s.order = append(s.order, key)
	return true
}

// Remove deletes key if present. Returns true if the key was removed.
func (s *Set) Remove(key string) bool {
	if !s.index[key] {
		return false
	}
	delete(s.index, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether key is in the set.
func (s *Set) Has(key string) bool {
	return s.index[key]
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Keys returns the keys in first-insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Union adds every key of other to s, preserving s's existing order and
// appending other's new keys in other's order.
func (s *Set) Union(other *Set) {
	for _, k := range other.order {
		s.Add(k)
	}
}
