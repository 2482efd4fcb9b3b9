// Package sparse provides a sparse set of element IDs with O(1) insertion,
// membership testing and clearing.
//
// The matcher uses one set to remember which lattice elements it already
// tested and another to collect the elements that matched, in the order they
// were discovered. Clearing is O(1), so pooled sets are cheap to reuse between
// searches.
package sparse

// SparseSet is a set of uint32 values backed by a sparse array (value ->
// position) and a dense array (insertion order).
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet creates a set able to hold values in [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound of storable values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Insert adds value to the set and reports whether it was newly added.
// Panics if value >= Capacity().
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	//nolint:gosec // G115: len(dense) < len(sparse), which fits in uint32
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all values in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Resize grows the set to hold values in [0, capacity) and clears it.
// Shrinking keeps the current backing arrays.
func (s *SparseSet) Resize(capacity uint32) {
	if int(capacity) > len(s.sparse) {
		s.sparse = make([]uint32, capacity)
		s.dense = make([]uint32, 0, capacity)
		return
	}
	s.Clear()
}

// Len returns the number of values in the set.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set holds no values.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the values in insertion order.
// The returned slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
