package relattice

import (
	"regexp"

	"github.com/bits-and-blooms/bitset"
)

// ID identifies an element within its Lattice. IDs are assigned in insertion
// order starting at zero.
type ID uint32

// Element is one inserted pattern and its recorded relations.
//
// Relation sets are owned by the lattice and change when later insertions
// relate to this element. Elements of a Lattice must not be read while
// another goroutine inserts; SafeLattice serialises that.
type Element struct {
	id     ID
	expr   string
	re     *regexp.Regexp
	filter *prefixFilter
	owner  *Lattice

	supersets  *bitset.BitSet
	subsets    *bitset.BitSet
	disjoints  *bitset.BitSet
	intersects *bitset.BitSet
	maybes     []ID
}

func newElement(owner *Lattice, id ID, expr string, re *regexp.Regexp) *Element {
	return &Element{
		id:         id,
		expr:       expr,
		re:         re,
		owner:      owner,
		supersets:  bitset.New(0),
		subsets:    bitset.New(0),
		disjoints:  bitset.New(0),
		intersects: bitset.New(0),
	}
}

// ID returns the element's identifier.
func (e *Element) ID() ID { return e.id }

// Expression returns the pattern text the element was inserted with.
func (e *Element) Expression() string { return e.expr }

// String returns the expression.
func (e *Element) String() string { return e.expr }

// Regexp returns the compiled pattern. It only matches at the start of the
// input.
func (e *Element) Regexp() *regexp.Regexp { return e.re }

// Supersets returns the elements recorded as containing e.
func (e *Element) Supersets() []*Element { return e.owner.resolve(e.supersets) }

// Subsets returns the elements recorded as contained in e.
func (e *Element) Subsets() []*Element { return e.owner.resolve(e.subsets) }

// Disjoints returns the elements recorded as sharing no text with e.
func (e *Element) Disjoints() []*Element { return e.owner.resolve(e.disjoints) }

// Intersects returns the elements recorded as overlapping e without
// containment. It is only populated under IntersectRecord.
func (e *Element) Intersects() []*Element { return e.owner.resolve(e.intersects) }

// Maybes returns elements whose relation to e is recorded as undecided.
// Insertion leaves undecided pairs unrelated, so this is empty unless a
// future policy records them.
func (e *Element) Maybes() []*Element {
	out := make([]*Element, len(e.maybes))
	for i, id := range e.maybes {
		out[i] = e.owner.elements[id]
	}
	return out
}

// IsRoot reports whether no element is recorded as containing e.
func (e *Element) IsRoot() bool { return e.supersets.None() }

// Equal reports whether both elements were inserted with the same
// expression. Element identity within a lattice is ID equality.
func (e *Element) Equal(o *Element) bool {
	return o != nil && e.expr == o.expr
}

// MatchString reports whether the element matches text at its start.
func (e *Element) MatchString(text string) bool {
	return e.re.MatchString(text)
}

// matches runs the literal prefilter on the prepared haystack before the
// compiled pattern.
func (e *Element) matches(text string, haystack []byte) bool {
	if !e.filter.admits(haystack) {
		return false
	}
	return e.re.MatchString(text)
}
