// SPDX-License-Identifier: MPL-2.0

package ordset_test

import (
	"reflect"
	"testing"

	"assetforge/internal/ordset"
)

func TestSet_AddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	s := ordset.New("b", "a", "c", "a")
	if got, want := s.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestSet_AddReportsNewness(t *testing.T) {
	t.Parallel()

	s := ordset.New()
	if !s.Add("x") {
		t.Error("first Add(x) = false, want true")
	}
	if s.Add("x") {
		t.Error("second Add(x) = true, want false")
	}
}

func TestSet_Remove(t *testing.T) {
	t.Parallel()

	s := ordset.New("a", "b", "c")
	if !s.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if s.Remove("b") {
		t.Error("second Remove(b) = true, want false")
	}
	if got, want := s.Keys(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after Remove = %v, want %v", got, want)
	}
}

func TestSet_Union(t *testing.T) {
	t.Parallel()

	s := ordset.New("a", "b")
	s.Union(ordset.New("b", "c", "d"))
	if got, want := s.Keys(), []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after Union = %v, want %v", got, want)
	}
}

func TestSet_KeysIsACopy(t *testing.T) {
	t.Parallel()

	s := ordset.New("a", "b")
	keys := s.Keys()
	keys[0] = "mutated"
	if got := s.Keys()[0]; got != "a" {
		t.Errorf("Keys()[0] after external mutation = %q, want %q", got, "a")
	}
}
