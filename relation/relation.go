// Package relation decides how two regular-expression patterns relate.
//
// A Relation is read from the left operand's point of view: Compare(a, b)
// returning Subset means "a is a subset of b", i.e. every text a matches at
// its start is also matched by b.
//
// No single test can decide every pair. Each Test implements one heuristic
// and either returns a decisive Relation or None ("inconclusive"). Callers
// run an ordered list of tests and keep the first decisive answer, so the
// order is part of the configuration:
//
//	tests := relation.DefaultTests()
//	rel, name, err := relation.First(tests, `\d+`, `\w+`)
//	// rel == relation.Subset, name == "class"
package relation

import (
	"fmt"
	"strings"
)

// Relation is the relation of a left pattern to a right pattern.
type Relation uint8

const (
	// None means no test could decide the relation.
	None Relation = iota
	// Equal means both patterns match the same texts.
	Equal
	// Subset means the left pattern matches a subset of the right one.
	Subset
	// Superset means the left pattern matches a superset of the right one.
	Superset
	// Disjoint means no text is matched by both patterns.
	Disjoint
	// Intersect means the patterns overlap without containment.
	Intersect
)

var names = [...]string{
	None:      "none",
	Equal:     "equal",
	Subset:    "subset",
	Superset:  "superset",
	Disjoint:  "disjoint",
	Intersect: "intersect",
}

// String returns the lower-case name of r.
func (r Relation) String() string {
	if int(r) < len(names) {
		return names[r]
	}
	return fmt.Sprintf("relation(%d)", uint8(r))
}

// Decisive reports whether r is anything but None.
func (r Relation) Decisive() bool {
	return r != None
}

// Inverse returns the relation seen from the other operand.
// Subset and Superset swap; the rest are symmetric.
func (r Relation) Inverse() Relation {
	switch r {
	case Subset:
		return Superset
	case Superset:
		return Subset
	default:
		return r
	}
}

// Parse converts a name produced by String back into a Relation.
func Parse(s string) (Relation, error) {
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return Relation(i), nil
		}
	}
	return None, fmt.Errorf("relation: unknown relation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
