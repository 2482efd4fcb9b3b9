package relattice

import (
	"github.com/coregx/relattice/internal/conv"
	"github.com/coregx/relattice/internal/sparse"
	"github.com/golang-collections/collections/stack"
)

// matchState holds per-match scratch space. It is pooled so that concurrent
// matches on a SafeLattice do not allocate per call.
type matchState struct {
	visited  *sparse.SparseSet
	matched  *sparse.SparseSet
	haystack []byte
	work     *stack.Stack
}

func newMatchState() *matchState {
	return &matchState{
		visited: sparse.NewSparseSet(0),
		matched: sparse.NewSparseSet(0),
		work:    stack.New(),
	}
}

func (s *matchState) reset(n int) {
	capacity := conv.IntToUint32(n)
	if s.visited.Capacity() < n {
		s.visited.Resize(capacity)
		s.matched.Resize(capacity)
	}
	s.visited.Clear()
	s.matched.Clear()
	for s.work.Len() > 0 {
		s.work.Pop()
	}
}

func (l *Lattice) getState() *matchState {
	st := l.states.Get().(*matchState)
	st.reset(len(l.elements))
	return st
}

func (l *Lattice) putState(st *matchState) {
	l.states.Put(st)
}

// Match returns the most specific elements matching text at its start.
//
// The search descends from the roots and only explores the subsets of
// elements that matched. Of the matched elements, those with a matched
// subset are dropped, and elements with the same expression are reported
// once. Results are in discovery order.
//
// If strict is set and more than one element remains, Match returns an
// *AmbiguousMatchError naming them. No match is not an error: the result is
// empty.
func (l *Lattice) Match(text string, strict bool) ([]*Element, error) {
	st := l.getState()
	defer l.putState(st)

	haystack := appendHaystack(st.haystack, text)
	if haystack != nil {
		st.haystack = haystack
	}
	l.descend(text, haystack, st)

	var out []*Element
	seen := make(map[string]struct{})
	for _, id := range st.matched.Values() {
		e := l.elements[id]
		if l.anySubsetMatched(e, st) {
			continue
		}
		if _, dup := seen[e.expr]; dup {
			continue
		}
		seen[e.expr] = struct{}{}
		out = append(out, e)
	}

	if strict && len(out) > 1 {
		return nil, &AmbiguousMatchError{Text: text, Expressions: Expressions(out)}
	}
	return out, nil
}

// MatchStrings is like Match but returns expressions.
func (l *Lattice) MatchStrings(text string, strict bool) ([]string, error) {
	elems, err := l.Match(text, strict)
	if err != nil {
		return nil, err
	}
	return Expressions(elems), nil
}

// descend runs a depth-first search from the roots. Children are pushed in
// reverse so that they are visited in ID order.
func (l *Lattice) descend(text string, haystack []byte, st *matchState) {
	roots := l.Roots()
	for i := len(roots) - 1; i >= 0; i-- {
		st.work.Push(roots[i])
	}

	var children []*Element
	for st.work.Len() > 0 {
		e := st.work.Pop().(*Element)
		if !st.visited.Insert(uint32(e.id)) {
			continue
		}
		if !e.matches(text, haystack) {
			continue
		}
		st.matched.Insert(uint32(e.id))

		children = children[:0]
		for i, ok := e.subsets.NextSet(0); ok; i, ok = e.subsets.NextSet(i + 1) {
			children = append(children, l.elements[i])
		}
		for i := len(children) - 1; i >= 0; i-- {
			if !st.visited.Contains(uint32(children[i].id)) {
				st.work.Push(children[i])
			}
		}
	}
}

func (l *Lattice) anySubsetMatched(e *Element, st *matchState) bool {
	for i, ok := e.subsets.NextSet(0); ok; i, ok = e.subsets.NextSet(i + 1) {
		if st.matched.Contains(conv.UintToUint32(i)) {
			return true
		}
	}
	return false
}
