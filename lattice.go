// Package relattice organises regular expressions into a partial order by
// the sets of texts they match, and uses that order to find the most
// specific patterns matching a text.
//
// Patterns are elements of a Lattice. Inserting a pattern relates it to the
// existing elements with an ordered list of heuristic tests (see package
// relation): a pattern that matches a subset of another's texts becomes its
// subset, and so on. Matching descends from the roots into the subsets of
// every matching element and returns the matching elements that have no
// matching subset.
//
// Elements match at the start of the text and, by default, ignore case.
//
// Basic usage:
//
//	l := relattice.New()
//	l.MustInsert(`.`)
//	l.MustInsert(`\w+`)
//	l.MustInsert(`\d+`)
//
//	m, _ := l.MatchStrings("5", false) // [\d+]
//	m, _ = l.MatchStrings("a", false)  // [\w+]
//	m, _ = l.MatchStrings("-", false)  // [.]
//
// A Lattice is not safe for concurrent use; see SafeLattice.
package relattice

import (
	"strings"
	"sync"

	"github.com/armon/go-radix"
	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/relattice/expand"
	"github.com/coregx/relattice/internal/conv"
	"github.com/coregx/relattice/internal/pattern"
	"github.com/coregx/relattice/literal"
	"github.com/coregx/relattice/relation"
	"github.com/golang-collections/collections/stack"
	"github.com/rs/zerolog"
)

// Lattice is an arena of pattern elements connected by relation edges.
type Lattice struct {
	cfg       Config
	log       zerolog.Logger
	extractor *literal.Extractor

	elements []*Element
	index    *radix.Tree // expression -> []ID

	roots []*Element
	dirty bool

	states sync.Pool // *matchState
}

// New returns an empty lattice with DefaultConfig.
func New() *Lattice {
	l, err := NewWithConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return l
}

// NewWithConfig returns an empty lattice using cfg.
func NewWithConfig(cfg Config) (*Lattice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Lattice{
		cfg:   cfg,
		log:   cfg.Logger,
		index: radix.New(),
	}
	l.cfg.Tests = append([]relation.Test(nil), cfg.Tests...)
	if cfg.EnablePrefilter {
		l.extractor = literal.New(literal.DefaultConfig())
	}
	l.states.New = func() any { return newMatchState() }
	return l, nil
}

// Config returns a copy of the lattice configuration.
func (l *Lattice) Config() Config {
	cfg := l.cfg
	cfg.Tests = append([]relation.Test(nil), l.cfg.Tests...)
	return cfg
}

// Len returns the number of elements.
func (l *Lattice) Len() int {
	return len(l.elements)
}

// Element returns the element with the given ID, or nil.
func (l *Lattice) Element(id ID) *Element {
	if int(id) >= len(l.elements) {
		return nil
	}
	return l.elements[id]
}

// Elements returns every element in insertion order.
func (l *Lattice) Elements() []*Element {
	return append([]*Element(nil), l.elements...)
}

// Lookup returns the elements inserted with exactly expr, oldest first.
func (l *Lattice) Lookup(expr string) []*Element {
	v, ok := l.index.Get(expr)
	if !ok {
		return nil
	}
	return l.byID(v.([]ID))
}

// WithPrefix returns the elements whose expression starts with prefix, in
// lexical order of expression.
func (l *Lattice) WithPrefix(prefix string) []*Element {
	var out []*Element
	l.index.WalkPrefix(prefix, func(_ string, v interface{}) bool {
		out = append(out, l.byID(v.([]ID))...)
		return false
	})
	return out
}

// Roots returns the elements no other element contains, in insertion order.
// The result is cached until the next insertion.
func (l *Lattice) Roots() []*Element {
	if l.dirty {
		l.roots = l.roots[:0]
		for _, e := range l.elements {
			if e.IsRoot() {
				l.roots = append(l.roots, e)
			}
		}
		l.dirty = false
	}
	return append([]*Element(nil), l.roots...)
}

// MustInsert is like Insert but panics on error.
func (l *Lattice) MustInsert(expr string) *Element {
	e, err := l.Insert(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// InsertAll inserts every expression in order. It stops at the first error;
// elements inserted before it remain.
func (l *Lattice) InsertAll(exprs ...string) ([]*Element, error) {
	out := make([]*Element, 0, len(exprs))
	for _, expr := range exprs {
		e, err := l.Insert(expr)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Insert compiles expr, relates it to the existing elements and adds it.
//
// Starting from each root, the configured tests decide how expr relates to
// the element at hand:
//
//   - Superset: expr contains the element and its direct subsets.
//   - Subset: expr descends into the element's subsets and is then recorded
//     as a subset of the element.
//   - Disjoint: expr is disjoint from the element and its subsets.
//   - Intersect: as Disjoint under IntersectLegacyDisjoint; a single
//     intersect edge under IntersectRecord.
//   - Equal: expr takes over the element's relations.
//
// Every existing element is compared at most once. Edges are collected
// first and committed only when all comparisons succeeded, so a failed
// insertion leaves the lattice unchanged.
func (l *Lattice) Insert(expr string) (*Element, error) {
	re, err := pattern.Compile(expr, l.cfg.FoldCase)
	if err != nil {
		// regexp rejects `a{5,2}` itself; report it as the repetition error.
		if rerr := expand.Check(expr); rerr != nil {
			err = rerr
		}
		return nil, &PatternError{Expression: expr, Err: err}
	}

	st := newStaging(len(l.elements))
	for _, root := range l.Roots() {
		if err := l.process(expr, root, st); err != nil {
			return nil, err
		}
	}

	id := ID(conv.IntToUint32(len(l.elements)))
	e := newElement(l, id, expr, re)
	if l.extractor != nil {
		e.filter = newPrefixFilter(l.extractor, expr)
	}
	l.commit(e, st)
	return e, nil
}

// staging collects the edges of one insertion. Sets are named from the new
// element's point of view.
type staging struct {
	visited    *bitset.BitSet
	supersets  *bitset.BitSet
	subsets    *bitset.BitSet
	disjoints  *bitset.BitSet
	intersects *bitset.BitSet

	// assumed holds disjoint edges inferred from an Intersect verdict under
	// IntersectLegacyDisjoint. They are not facts, so the elements stay
	// unvisited and a later comparison replaces the assumption.
	assumed *bitset.BitSet
}

func newStaging(n int) *staging {
	size := uint(n)
	return &staging{
		visited:    bitset.New(size),
		supersets:  bitset.New(size),
		subsets:    bitset.New(size),
		disjoints:  bitset.New(size),
		intersects: bitset.New(size),
		assumed:    bitset.New(size),
	}
}

func (l *Lattice) process(expr string, el *Element, st *staging) error {
	if st.visited.Test(uint(el.id)) {
		return nil
	}
	st.visited.Set(uint(el.id))
	st.assumed.Clear(uint(el.id))

	rel, name, err := relation.First(l.cfg.Tests, expr, el.expr)
	if err != nil {
		return &InsertError{Expression: expr, Existing: el.expr, Test: name, Err: err}
	}
	if rel.Decisive() {
		l.log.Debug().
			Str("new", expr).
			Str("existing", el.expr).
			Stringer("relation", rel).
			Str("test", name).
			Msg("relation decided")
	}

	switch rel {
	case relation.Superset:
		st.subsets.Set(uint(el.id))
		l.stageWithSubsets(el, st.subsets, st)

	case relation.Subset:
		for _, sub := range l.resolve(el.subsets) {
			if err := l.process(expr, sub, st); err != nil {
				return err
			}
		}
		st.supersets.Set(uint(el.id))

	case relation.Disjoint:
		st.disjoints.Set(uint(el.id))
		l.stageWithSubsets(el, st.disjoints, st)

	case relation.Intersect:
		if l.cfg.IntersectPolicy == IntersectRecord {
			st.intersects.Set(uint(el.id))
			break
		}
		st.disjoints.Set(uint(el.id))
		for i, ok := el.subsets.NextSet(0); ok; i, ok = el.subsets.NextSet(i + 1) {
			if !st.visited.Test(i) {
				st.assumed.Set(i)
			}
		}

	case relation.Equal:
		st.supersets.InPlaceUnion(el.supersets)
		st.subsets.InPlaceUnion(el.subsets)
		st.disjoints.InPlaceUnion(el.disjoints)
		st.intersects.InPlaceUnion(el.intersects)
	}
	return nil
}

// stageWithSubsets adds el's direct subsets to set and marks them compared:
// their relation to the new element follows from el's.
func (l *Lattice) stageWithSubsets(el *Element, set *bitset.BitSet, st *staging) {
	for i, ok := el.subsets.NextSet(0); ok; i, ok = el.subsets.NextSet(i + 1) {
		set.Set(i)
		st.visited.Set(i)
		st.assumed.Clear(i)
	}
}

// commit drops containment edges that would close a cycle, then records
// every staged edge in both directions and appends e.
func (l *Lattice) commit(e *Element, st *staging) {
	st.assumed.InPlaceDifference(st.supersets)
	st.assumed.InPlaceDifference(st.subsets)
	st.assumed.InPlaceDifference(st.intersects)
	st.disjoints.InPlaceUnion(st.assumed)

	ancestors := l.ancestors(st.supersets)
	for i, ok := st.subsets.NextSet(0); ok; i, ok = st.subsets.NextSet(i + 1) {
		if !ancestors.Test(i) {
			continue
		}
		st.subsets.Clear(i)
		l.log.Warn().
			Str("new", e.expr).
			Str("existing", l.elements[i].expr).
			Msg("dropping subset edge that would close a containment cycle")
	}

	id := uint(e.id)
	link := func(own *bitset.BitSet, staged *bitset.BitSet, back func(*Element) *bitset.BitSet) {
		for i, ok := staged.NextSet(0); ok; i, ok = staged.NextSet(i + 1) {
			own.Set(i)
			back(l.elements[i]).Set(id)
		}
	}
	link(e.supersets, st.supersets, func(o *Element) *bitset.BitSet { return o.subsets })
	link(e.subsets, st.subsets, func(o *Element) *bitset.BitSet { return o.supersets })
	link(e.disjoints, st.disjoints, func(o *Element) *bitset.BitSet { return o.disjoints })
	link(e.intersects, st.intersects, func(o *Element) *bitset.BitSet { return o.intersects })

	l.elements = append(l.elements, e)
	l.indexElement(e)
	l.dirty = true
}

// ancestors returns the given elements and everything containing them.
func (l *Lattice) ancestors(from *bitset.BitSet) *bitset.BitSet {
	seen := bitset.New(uint(len(l.elements)))
	work := stack.New()
	for i, ok := from.NextSet(0); ok; i, ok = from.NextSet(i + 1) {
		work.Push(i)
	}
	for work.Len() > 0 {
		i := work.Pop().(uint)
		if seen.Test(i) {
			continue
		}
		seen.Set(i)
		sup := l.elements[i].supersets
		for j, ok := sup.NextSet(0); ok; j, ok = sup.NextSet(j + 1) {
			work.Push(j)
		}
	}
	return seen
}

func (l *Lattice) indexElement(e *Element) {
	var ids []ID
	if v, ok := l.index.Get(e.expr); ok {
		ids = v.([]ID)
	}
	l.index.Insert(e.expr, append(ids, e.id))
}

func (l *Lattice) resolve(set *bitset.BitSet) []*Element {
	out := make([]*Element, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		out = append(out, l.elements[i])
	}
	return out
}

func (l *Lattice) byID(ids []ID) []*Element {
	out := make([]*Element, len(ids))
	for i, id := range ids {
		out[i] = l.elements[id]
	}
	return out
}

// Expressions returns the expressions of elems.
func Expressions(elems []*Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.expr
	}
	return out
}

// String renders the lattice one element per line with its subsets, for
// debugging.
func (l *Lattice) String() string {
	var b strings.Builder
	for _, e := range l.elements {
		b.WriteString(e.expr)
		if subs := l.resolve(e.subsets); len(subs) > 0 {
			b.WriteString(" > ")
			b.WriteString(strings.Join(Expressions(subs), ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
