package relattice

import "sync"

// SafeLattice is a Lattice guarded by a read-write mutex: insertions are
// exclusive, matches run concurrently. The root cache is refreshed while the
// write lock is held, so matching never mutates the lattice.
type SafeLattice struct {
	mu sync.RWMutex
	l  *Lattice
}

// NewSafe wraps l. The caller must not use l directly afterwards.
func NewSafe(l *Lattice) *SafeLattice {
	l.Roots()
	return &SafeLattice{l: l}
}

// Insert adds expr under the write lock.
func (s *SafeLattice) Insert(expr string) (*Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.l.Insert(expr)
	s.l.Roots()
	return e, err
}

// Match runs Lattice.Match under the read lock.
func (s *SafeLattice) Match(text string, strict bool) ([]*Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l.Match(text, strict)
}

// MatchStrings runs Lattice.MatchStrings under the read lock.
func (s *SafeLattice) MatchStrings(text string, strict bool) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l.MatchStrings(text, strict)
}

// Roots returns the current roots.
func (s *SafeLattice) Roots() []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l.Roots()
}

// Lookup returns the elements inserted with exactly expr.
func (s *SafeLattice) Lookup(expr string) []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l.Lookup(expr)
}

// Len returns the number of elements.
func (s *SafeLattice) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.l.Len()
}

// View calls fn with the underlying lattice under the read lock. fn must not
// insert.
func (s *SafeLattice) View(fn func(*Lattice)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.l)
}
