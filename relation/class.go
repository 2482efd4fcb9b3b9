package relation

import (
	"regexp/syntax"
	"slices"
	"unicode"
)

// CompareClass decides patterns that reduce to a single character class
// matched once or more, such as `\d+`, `[a-f]{2}`, `\w` or `.`. Under
// match-at-start semantics such a pattern matches exactly the texts whose
// first rune is in the class, so the relation follows from comparing the
// rune sets: `\d+` is a Subset of `\w+`, which is a Subset of `.`.
//
// A class under `*`, `?` or `{0,n}` matches every text and is a Superset of
// every other class pattern. Anything else is inconclusive.
func CompareClass(lhs, rhs string) Relation {
	return compareClass(lhs, rhs, true)
}

func compareClass(lhs, rhs string, fold bool) Relation {
	a, ok := classOf(lhs, fold)
	if !ok {
		return None
	}
	b, ok := classOf(rhs, fold)
	if !ok {
		return None
	}
	return a.compare(b)
}

// runeSet is a sorted list of non-adjacent closed ranges [lo0, hi0, lo1, hi1,
// ...], the layout regexp/syntax uses for OpCharClass. all marks a pattern
// that matches the empty prefix and therefore every text.
type runeSet struct {
	all    bool
	ranges []rune
}

func classOf(p string, fold bool) (runeSet, bool) {
	flags := syntax.Perl
	if fold {
		flags |= syntax.FoldCase
	}
	re, err := syntax.Parse(p, flags)
	if err != nil {
		return runeSet{}, false
	}
	return repeatedClass(re)
}

func repeatedClass(re *syntax.Regexp) (runeSet, bool) {
	switch re.Op {
	case syntax.OpCapture:
		return repeatedClass(re.Sub[0])
	case syntax.OpConcat:
		// `^x+` is the same as `x+` for a match-at-start element.
		if len(re.Sub) == 2 && re.Sub[0].Op == syntax.OpBeginText {
			return repeatedClass(re.Sub[1])
		}
		return runeSet{}, false
	case syntax.OpPlus:
		return singleClass(re.Sub[0])
	case syntax.OpStar, syntax.OpQuest:
		if _, ok := singleClass(re.Sub[0]); !ok {
			return runeSet{}, false
		}
		return runeSet{all: true}, true
	case syntax.OpRepeat:
		s, ok := singleClass(re.Sub[0])
		if !ok {
			return runeSet{}, false
		}
		if re.Min == 0 {
			return runeSet{all: true}, true
		}
		return s, true
	}
	return singleClass(re)
}

// singleClass returns the runes matched by re when re consumes exactly one
// rune.
func singleClass(re *syntax.Regexp) (runeSet, bool) {
	switch re.Op {
	case syntax.OpCapture:
		return singleClass(re.Sub[0])
	case syntax.OpLiteral:
		if len(re.Rune) != 1 {
			return runeSet{}, false
		}
		r := re.Rune[0]
		if re.Flags&syntax.FoldCase == 0 {
			return runeSet{ranges: []rune{r, r}}, true
		}
		orbit := []rune{r}
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			orbit = append(orbit, f)
		}
		return fromRunes(orbit), true
	case syntax.OpCharClass:
		return normalize(slices.Clone(re.Rune)), true
	case syntax.OpAnyCharNotNL:
		return runeSet{ranges: []rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune}}, true
	case syntax.OpAnyChar:
		return runeSet{ranges: []rune{0, unicode.MaxRune}}, true
	}
	return runeSet{}, false
}

func fromRunes(rs []rune) runeSet {
	pairs := make([]rune, 0, 2*len(rs))
	for _, r := range rs {
		pairs = append(pairs, r, r)
	}
	return normalize(pairs)
}

// normalize sorts ranges and merges overlapping or adjacent ones.
func normalize(pairs []rune) runeSet {
	type span struct{ lo, hi rune }
	spans := make([]span, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		spans = append(spans, span{pairs[i], pairs[i+1]})
	}
	slices.SortFunc(spans, func(a, b span) int { return int(a.lo - b.lo) })

	out := make([]rune, 0, len(pairs))
	for _, s := range spans {
		if n := len(out); n > 0 && s.lo <= out[n-1]+1 {
			out[n-1] = max(out[n-1], s.hi)
			continue
		}
		out = append(out, s.lo, s.hi)
	}
	return runeSet{ranges: out}
}

func (s runeSet) compare(o runeSet) Relation {
	switch {
	case s.all && o.all:
		return Equal
	case s.all:
		return Superset
	case o.all:
		return Subset
	}

	in, contains := s.within(o), o.within(s)
	switch {
	case in && contains:
		return Equal
	case in:
		return Subset
	case contains:
		return Superset
	case !s.overlaps(o):
		return Disjoint
	}
	return Intersect
}

// within reports whether every range of s lies inside a single range of o.
// Ranges are merged, so that is the same as lying inside their union.
func (s runeSet) within(o runeSet) bool {
	j := 0
	for i := 0; i < len(s.ranges); i += 2 {
		lo, hi := s.ranges[i], s.ranges[i+1]
		for j < len(o.ranges) && o.ranges[j+1] < lo {
			j += 2
		}
		if j >= len(o.ranges) || o.ranges[j] > lo || o.ranges[j+1] < hi {
			return false
		}
	}
	return true
}

func (s runeSet) overlaps(o runeSet) bool {
	i, j := 0, 0
	for i < len(s.ranges) && j < len(o.ranges) {
		switch {
		case s.ranges[i+1] < o.ranges[j]:
			i += 2
		case o.ranges[j+1] < s.ranges[i]:
			j += 2
		default:
			return true
		}
	}
	return false
}
