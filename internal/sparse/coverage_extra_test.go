package sparse

import (
	"testing"
)

// TestSparseSetSize tests the Size() method.
func TestSparseSetSize(t *testing.T) {
	s := NewSparseSet(10)

	if s.Size() != 0 {
		t.Errorf("expected Size()=0, got %d", s.Size())
	}

	s.Insert(1)
	s.Insert(3)
	s.Insert(5)
	if s.Size() != 3 {
		t.Errorf("expected Size()=3, got %d", s.Size())
	}
}

// TestSparseSetIter tests the Iter() method.
func TestSparseSetIter(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(7)
	s.Insert(2)
	s.Insert(5)

	var collected []uint32
	s.Iter(func(v uint32) {
		collected = append(collected, v)
	})

	if len(collected) != 3 {
		t.Fatalf("expected 3 items, got %d", len(collected))
	}
	// Insertion order: 7, 2, 5
	if collected[0] != 7 || collected[1] != 2 || collected[2] != 5 {
		t.Errorf("expected [7,2,5], got %v", collected)
	}
}

// TestSparseSetIterEmpty tests Iter on an empty set.
func TestSparseSetIterEmpty(t *testing.T) {
	s := NewSparseSet(10)

	called := false
	s.Iter(func(v uint32) {
		called = true
	})
	if called {
		t.Error("Iter should not call function on empty set")
	}
}

// TestSparseSetRemoveLastElement tests removing the last element.
func TestSparseSetRemoveLastElement(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(5)

	s.Remove(5)
	if s.Size() != 0 {
		t.Errorf("expected empty set after removing last element, got %d", s.Size())
	}
	if s.Contains(5) {
		t.Error("5 should not be in set after removal")
	}
}

// TestSparseSetRemoveMiddleElement tests removing an element that isn't at the end of dense.
func TestSparseSetRemoveMiddleElement(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	s.Remove(1)
	if s.Contains(1) {
		t.Error("1 should not be in set after removal")
	}
	if !s.Contains(2) {
		t.Error("2 should still be in set")
	}
	if !s.Contains(3) {
		t.Error("3 should still be in set")
	}
	if s.Size() != 2 {
		t.Errorf("expected Size=2, got %d", s.Size())
	}
}

// TestSparseSetRemoveNonExistent tests removing a value that is not in the set.
func TestSparseSetRemoveNonExistent(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(5)

	s.Remove(3) // Not in set
	if s.Size() != 1 {
		t.Errorf("expected Size=1, got %d", s.Size())
	}
}
