// Package literal extracts the literal prefixes a pattern requires.
//
// The lattice matcher evaluates one compiled pattern per element it visits.
// Most elements in a route-like pattern set begin with literal text, so a
// cheap "does the text start with one of these prefixes" check rejects the
// bulk of non-matching elements before the regexp engine runs.
//
// Key concepts:
//   - A Literal is a byte string plus a Complete flag. Complete means the
//     literal spells out the whole sub-pattern it came from, so the next
//     sub-pattern of a concatenation may extend it.
//   - A Seq is a set of alternative literals. Every text the pattern matches
//     at its start begins with at least one of them.
package literal

import (
	"bytes"
	"sort"
)

// Literal is one required prefix.
type Literal struct {
	// Bytes holds the lower-cased prefix.
	Bytes []byte

	// Complete reports whether Bytes covers the whole sub-pattern.
	Complete bool
}

// NewLiteral returns a Literal for b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String formats the literal for debugging, e.g. "literal{api, complete=false}".
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative required prefixes.
type Seq struct {
	literals []Literal
}

// NewSeq returns a sequence holding lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// IsEmpty reports whether the sequence holds no literal.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Literals returns the underlying slice. Callers must not modify it.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// Clone returns a deep copy of s.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	out := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		out[i] = NewLiteral(bytes.Clone(lit.Bytes), lit.Complete)
	}
	return &Seq{literals: out}
}

// MakeInexact clears the Complete flag on every literal. A concatenation
// cannot extend an inexact literal any further.
func (s *Seq) MakeInexact() {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// HasEmpty reports whether the empty string is one of the prefixes, in which
// case the sequence rejects nothing.
func (s *Seq) HasEmpty() bool {
	for _, lit := range s.Literals() {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// Minimize sorts the literals and drops every literal that has another
// literal as a prefix: a text starting with "foobar" also starts with
// "foo", so "foo" alone is enough.
func (s *Seq) Minimize() {
	if s.Len() < 2 {
		return
	}
	sort.Slice(s.literals, func(i, j int) bool {
		return bytes.Compare(s.literals[i].Bytes, s.literals[j].Bytes) < 0
	})

	// In sorted order a literal covered by a shorter prefix always follows
	// that prefix or another literal it covers.
	out := s.literals[:1]
	for _, lit := range s.literals[1:] {
		if bytes.HasPrefix(lit.Bytes, out[len(out)-1].Bytes) {
			continue
		}
		out = append(out, lit)
	}
	s.literals = out
}

// Strings returns the prefixes as strings.
func (s *Seq) Strings() []string {
	out := make([]string, s.Len())
	for i, lit := range s.Literals() {
		out[i] = string(lit.Bytes)
	}
	return out
}
