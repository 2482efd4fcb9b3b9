package relation

import (
	"strings"

	"github.com/coregx/relattice/internal/pattern"
)

// ComparePrefix walks both patterns left to right. A literal mismatch found
// before either side opens a construct (a group, `.`, a bracket or escape
// class, an optional atom) means no text can start with both, so the
// patterns are Disjoint. Otherwise the test is inconclusive.
//
// A leading `^` is ignored: elements already match at the start only.
func ComparePrefix(lhs, rhs string) Relation {
	return comparePrefix(lhs, rhs, true)
}

func comparePrefix(lhs, rhs string, fold bool) Relation {
	if pattern.HasTopLevelAlternation(lhs) || pattern.HasTopLevelAlternation(rhs) {
		return None
	}
	a := pattern.Atoms(pattern.TrimCaret(lhs))
	b := pattern.Atoms(pattern.TrimCaret(rhs))

	for i := 0; i < len(a) && i < len(b); i++ {
		ra, okA, lastA := requiredLiteral(a, i)
		rb, okB, lastB := requiredLiteral(b, i)
		if !okA || !okB {
			return None
		}
		if !pattern.EqualRune(ra, rb, fold) {
			return Disjoint
		}
		if lastA || lastB {
			return None
		}
	}
	return None
}

// requiredLiteral reports the literal at atoms[i] when every match must
// contain it at that position. last is true when the literal is repeated
// (`a+`, `a{2}`), which ends the comparable stretch.
func requiredLiteral(atoms []pattern.Atom, i int) (r rune, ok, last bool) {
	if atoms[i].Kind != pattern.Literal {
		return 0, false, false
	}
	if i+1 < len(atoms) && atoms[i+1].Kind == pattern.Quantifier {
		if optional(atoms[i+1].Text) {
			return 0, false, false
		}
		return atoms[i].Rune, true, true
	}
	return atoms[i].Rune, true, false
}

// optional reports whether a quantifier allows zero repetitions.
func optional(q string) bool {
	switch q[0] {
	case '*', '?':
		return true
	case '{':
		lo, _, _, ok := pattern.ParseRepeat(q, 0)
		return !ok || lo == 0
	}
	return false
}

// CompareSuffix is the right-to-left counterpart of ComparePrefix. Any of
// `).]*+}?` at the current position is a construct boundary that halts the
// scan; an escaped metacharacter such as `\.` is compared as the literal it
// stands for. A single trailing `$` is ignored on both sides. Mismatching
// trailing literals before any boundary mean Disjoint.
//
// Under match-at-start semantics this is a heuristic: `.c` and `..d` share
// the text "xcd" yet the test reports them Disjoint.
func CompareSuffix(lhs, rhs string) Relation {
	return compareSuffix(lhs, rhs, true)
}

func compareSuffix(lhs, rhs string, fold bool) Relation {
	if pattern.HasTopLevelAlternation(lhs) || pattern.HasTopLevelAlternation(rhs) {
		return None
	}
	a := pattern.Atoms(pattern.TrimDollar(lhs))
	b := pattern.Atoms(pattern.TrimDollar(rhs))

	for i := 1; i <= len(a) && i <= len(b); i++ {
		x, y := a[len(a)-i], b[len(b)-i]
		if x.Kind != pattern.Literal || y.Kind != pattern.Literal {
			return None
		}
		if !pattern.EqualRune(x.Rune, y.Rune, fold) {
			return Disjoint
		}
	}
	return None
}

// CompareEqual reports Equal for textually identical patterns.
func CompareEqual(lhs, rhs string) Relation {
	if lhs == rhs {
		return Equal
	}
	return None
}

// Trailing "any suffix" wildcards recognised by CompareTrailingWildcard.
var wildcards = []string{".*", "(/.*)?"}

func stripWildcard(p string) (string, bool) {
	for _, w := range wildcards {
		if strings.HasSuffix(p, w) && !pattern.EscapedAt(p, len(p)-len(w)) {
			return p[:len(p)-len(w)], true
		}
	}
	return p, false
}

// CompareTrailingWildcard handles patterns ending in `.*` or `(/.*)?`. The
// wildcard is stripped and the remaining prefixes are compared textually:
// a pattern that extends a wildcard pattern's prefix is its Subset. Two
// wildcard patterns with the same prefix are Equal.
func CompareTrailingWildcard(lhs, rhs string) Relation {
	return compareTrailingWildcard(lhs, rhs, true)
}

func compareTrailingWildcard(lhs, rhs string, fold bool) Relation {
	a, aStar := stripWildcard(lhs)
	b, bStar := stripWildcard(rhs)

	switch {
	case aStar && bStar:
		switch {
		case pattern.HasPrefix(a, b, fold) && pattern.HasPrefix(b, a, fold):
			return Equal
		case pattern.HasPrefix(a, b, fold):
			return Subset
		case pattern.HasPrefix(b, a, fold):
			return Superset
		}
	case bStar && pattern.HasPrefix(a, b, fold):
		return Subset
	case aStar && pattern.HasPrefix(b, a, fold):
		return Superset
	}
	return None
}

// CompareFixed applies when exactly one side is a fixed string. The fixed
// side is a Subset of the other when the other's compiled pattern matches
// the fixed text at the start.
func CompareFixed(lhs, rhs string) Relation {
	return compareFixed(lhs, rhs, true)
}

func compareFixed(lhs, rhs string, fold bool) Relation {
	a, aFixed := pattern.Fixed(lhs)
	b, bFixed := pattern.Fixed(rhs)

	switch {
	case aFixed && !bFixed:
		if pattern.MatchAtStart(rhs, a, fold) {
			return Subset
		}
	case bFixed && !aFixed:
		if pattern.MatchAtStart(lhs, b, fold) {
			return Superset
		}
	}
	return None
}

// CompareAnchor strips `^`/`$` from each side and checks whether one side's
// compiled pattern matches the other side's text at the start. This is a
// heuristic, not a proof: unanchored patterns that merely share a literal
// prefix can be reported as nested. Leave it out of the test order (see
// WithoutAnchor) where that matters.
func CompareAnchor(lhs, rhs string) Relation {
	return compareAnchor(lhs, rhs, true)
}

func compareAnchor(lhs, rhs string, fold bool) Relation {
	if pattern.MatchAtStart(lhs, pattern.StripAnchors(rhs), fold) {
		return Superset
	}
	if pattern.MatchAtStart(rhs, pattern.StripAnchors(lhs), fold) {
		return Subset
	}
	return None
}
