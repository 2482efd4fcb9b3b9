// Package expand rewrites patterns containing bounded repetitions into the
// finite set of concrete patterns they denote.
//
// A repetition site is a unit followed by a counted quantifier:
//
//	a{3}       -> aaa
//	a{1,3}     -> a, aa, aaa
//	\d{2}      -> \d\d
//	(ab){1,2}  -> ab, abab
//	(a|b){2}   -> (a|b)(a|b)
//
// Group repetitions are expanded before single-unit repetitions, and every
// candidate is expanded again until no bounded site remains. Open-ended
// repetitions (`{n,}`, `*`, `+`) are left in place: such patterns are
// infinite and expand to themselves.
//
// Expansion is lazy. All returns an iterator, so callers that only need the
// first few candidates never pay for the rest.
package expand

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/coregx/relattice/internal/pattern"
)

// ErrMalformedRepetition is matched by every *RepetitionError.
var ErrMalformedRepetition = errors.New("expand: malformed repetition")

// ErrLimitExceeded is returned when expansion would exceed the configured
// Limits.
var ErrLimitExceeded = errors.New("expand: limit exceeded")

// RepetitionError reports a repetition whose minimum exceeds its maximum.
type RepetitionError struct {
	Pattern string
	Site    string
	Min     int
	Max     int
}

// Error implements the error interface.
func (e *RepetitionError) Error() string {
	return fmt.Sprintf("expand: cannot expand %q: repetition %s has min %d > max %d",
		e.Pattern, e.Site, e.Min, e.Max)
}

// Is makes errors.Is(err, ErrMalformedRepetition) true.
func (e *RepetitionError) Is(target error) bool {
	return target == ErrMalformedRepetition
}

// LimitError reports which limit was exceeded.
type LimitError struct {
	Pattern string
	Limit   string
	Value   int
	Max     int
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("expand: %q exceeds %s limit (%d > %d)", e.Pattern, e.Limit, e.Value, e.Max)
}

// Is makes errors.Is(err, ErrLimitExceeded) true.
func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// Limits bounds the cost of an expansion.
type Limits struct {
	// MaxSpan is the largest allowed max-min of a single repetition.
	MaxSpan int
	// MaxDepth is the largest number of nested expansion steps, i.e. the
	// number of repetition sites in one pattern.
	MaxDepth int
	// MaxResults is the largest number of produced candidates.
	MaxResults int
}

// DefaultLimits returns limits suitable for route-like patterns.
func DefaultLimits() Limits {
	return Limits{
		MaxSpan:    64,
		MaxDepth:   32,
		MaxResults: 4096,
	}
}

// Validate checks that every limit is positive.
func (l Limits) Validate() error {
	switch {
	case l.MaxSpan < 1:
		return fmt.Errorf("expand: MaxSpan must be positive, got %d", l.MaxSpan)
	case l.MaxDepth < 1:
		return fmt.Errorf("expand: MaxDepth must be positive, got %d", l.MaxDepth)
	case l.MaxResults < 1:
		return fmt.Errorf("expand: MaxResults must be positive, got %d", l.MaxResults)
	}
	return nil
}

// Expander expands patterns under a set of limits.
// An Expander is stateless and safe for concurrent use.
type Expander struct {
	limits Limits
}

// New returns an Expander bounded by limits.
func New(limits Limits) *Expander {
	return &Expander{limits: limits}
}

var defaultExpander = New(DefaultLimits())

// All lazily yields the expansion of p under DefaultLimits.
func All(p string) iter.Seq2[string, error] {
	return defaultExpander.All(p)
}

// Strings collects the expansion of p under DefaultLimits.
func Strings(p string) ([]string, error) {
	return defaultExpander.Strings(p)
}

// All lazily yields every concrete pattern denoted by p. On failure the
// iterator yields a single ("", err) pair and stops.
func (x *Expander) All(p string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		w := walker{limits: x.limits, root: p, yield: yield}
		w.walk(p, 0)
	}
}

// Strings collects the expansion of p. The result has at least one element:
// a pattern without bounded repetitions expands to itself.
func (x *Expander) Strings(p string) ([]string, error) {
	var out []string
	for s, err := range x.All(p) {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Expandable reports whether p contains at least one bounded repetition
// site. Malformed sites count as expandable; expanding them fails.
func Expandable(p string) bool {
	_, ok := findSite(p)
	return ok
}

// Check reports the first bounded repetition in p whose minimum exceeds its
// maximum, without expanding anything.
func Check(p string) error {
	atoms := pattern.Atoms(p)
	for i := 1; i < len(atoms); i++ {
		q := atoms[i]
		if q.Kind != pattern.Quantifier || !strings.HasPrefix(q.Text, "{") {
			continue
		}
		lo, hi, _, ok := pattern.ParseRepeat(q.Text, 0)
		if ok && hi >= 0 && lo > hi {
			return &RepetitionError{Pattern: p, Site: p[atoms[i-1].Start:q.End], Min: lo, Max: hi}
		}
	}
	return nil
}

type walker struct {
	limits   Limits
	root     string
	yield    func(string, error) bool
	produced int
}

// walk expands the first site of p and recurses into each candidate. It
// returns false once the consumer stopped or an error was yielded.
func (w *walker) walk(p string, depth int) bool {
	s, ok := findSite(p)
	if !ok {
		w.produced++
		if w.produced > w.limits.MaxResults {
			return w.fail(&LimitError{Pattern: w.root, Limit: "results", Value: w.produced, Max: w.limits.MaxResults})
		}
		return w.yield(p, nil)
	}
	if depth >= w.limits.MaxDepth {
		return w.fail(&LimitError{Pattern: w.root, Limit: "depth", Value: depth + 1, Max: w.limits.MaxDepth})
	}
	if s.min > s.max {
		return w.fail(&RepetitionError{Pattern: w.root, Site: p[s.start:s.end], Min: s.min, Max: s.max})
	}
	if span := s.max - s.min; span > w.limits.MaxSpan {
		return w.fail(&LimitError{Pattern: w.root, Limit: "span", Value: span, Max: w.limits.MaxSpan})
	}

	head, tail := p[:s.start], p[s.end:]
	for n := s.min; n <= s.max; n++ {
		if !w.walk(head+strings.Repeat(s.unit, n)+tail, depth+1) {
			return false
		}
	}
	return true
}

func (w *walker) fail(err error) bool {
	w.yield("", err)
	return false
}

// site is one bounded repetition: p[start:end] is the repeated construct
// including its quantifier, unit is the text substituted per repetition.
type site struct {
	start, end int
	unit       string
	min, max   int
}

// findSite returns the first group repetition in p or, when there is none,
// the first single-unit repetition.
func findSite(p string) (site, bool) {
	atoms := pattern.Atoms(p)
	if s, ok := findGroupSite(p, atoms); ok {
		return s, true
	}
	return findUnitSite(atoms)
}

func bounded(q pattern.Atom) (lo, hi int, ok bool) {
	if q.Kind != pattern.Quantifier || !strings.HasPrefix(q.Text, "{") {
		return 0, 0, false
	}
	lo, hi, _, ok = pattern.ParseRepeat(q.Text, 0)
	if !ok || hi < 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

func findGroupSite(p string, atoms []pattern.Atom) (site, bool) {
	for i := 1; i < len(atoms); i++ {
		if atoms[i-1].Kind != pattern.GroupClose {
			continue
		}
		lo, hi, ok := bounded(atoms[i])
		if !ok {
			continue
		}
		open := matchingOpen(atoms, i-1)
		if open < 0 {
			continue
		}
		body := p[atoms[open].End:atoms[i-1].Start]
		unit := p[atoms[open].Start:atoms[i-1].End]
		if plain(atoms[open].Text) && !pattern.HasTopLevelAlternation(body) {
			unit = body
		}
		return site{start: atoms[open].Start, end: atoms[i].End, unit: unit, min: lo, max: hi}, true
	}
	return site{}, false
}

// plain reports whether a group opener carries no name and no flags, so its
// parentheses can be dropped without changing meaning.
func plain(open string) bool {
	return open == "(" || open == "(?:"
}

func matchingOpen(atoms []pattern.Atom, closeIdx int) int {
	depth := 0
	for j := closeIdx; j >= 0; j-- {
		switch atoms[j].Kind {
		case pattern.GroupClose:
			depth++
		case pattern.GroupOpen:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func findUnitSite(atoms []pattern.Atom) (site, bool) {
	for i := 1; i < len(atoms); i++ {
		prev := atoms[i-1]
		if prev.Kind != pattern.Literal && prev.Kind != pattern.Class {
			continue
		}
		lo, hi, ok := bounded(atoms[i])
		if !ok {
			continue
		}
		return site{start: prev.Start, end: atoms[i].End, unit: prev.Text, min: lo, max: hi}, true
	}
	return site{}, false
}
