package relation

import (
	"errors"
	"strings"

	"github.com/coregx/relattice/expand"
	"github.com/coregx/relattice/internal/pattern"
	"github.com/rs/zerolog"
)

// NewExpansion returns the case-insensitive expansion test bounded by
// limits.
//
// Both patterns are expanded into their finite sets of concrete patterns and
// the sets are compared. A pattern with no bounded repetition counts as a
// one-element set only when it is fixed; anything else is infinite and the
// test is inconclusive rather than comparing pattern text as if it were a
// string. A pattern whose expansion exceeds limits is treated as infinite.
func NewExpansion(limits expand.Limits) Test {
	return newExpansion(Options{Limits: limits, FoldCase: true, Logger: zerolog.Nop()})
}

func newExpansion(opts Options) Test {
	x := expand.New(opts.Limits)
	log := opts.Logger
	return caseFunc{
		Func: NewFunc(NameExpansion, func(lhs, rhs string) (Relation, error) {
			r, err := compareExpansion(x, lhs, rhs, opts.FoldCase)
			if errors.Is(err, expand.ErrLimitExceeded) {
				log.Warn().Err(err).Str("lhs", lhs).Str("rhs", rhs).Msg("expansion too large, treating as inconclusive")
				return None, nil
			}
			return r, err
		}),
		fold: opts.FoldCase,
	}
}

// CompareExpansion runs the expansion test under default limits. Unlike the
// Test returned by NewExpansion it reports a limit overflow as an error.
func CompareExpansion(lhs, rhs string) (Relation, error) {
	return compareExpansion(expand.New(expand.DefaultLimits()), lhs, rhs, true)
}

func compareExpansion(x *expand.Expander, lhs, rhs string, fold bool) (Relation, error) {
	a, ok, err := finiteSet(x, lhs, fold)
	if err != nil || !ok {
		return None, err
	}
	b, ok, err := finiteSet(x, rhs, fold)
	if err != nil || !ok {
		return None, err
	}

	aInB, bInA := true, true
	overlap := false
	for s := range a {
		if _, found := b[s]; found {
			overlap = true
		} else {
			aInB = false
		}
	}
	for s := range b {
		if _, found := a[s]; !found {
			bInA = false
		}
	}

	switch {
	case aInB && bInA:
		return Equal, nil
	case aInB:
		return Subset, nil
	case bInA:
		return Superset, nil
	case overlap:
		return Intersect, nil
	}
	return None, nil
}

// finiteSet expands p into a set of normalised members. ok is false when p
// denotes an infinite language.
func finiteSet(x *expand.Expander, p string, fold bool) (map[string]struct{}, bool, error) {
	if !expand.Expandable(p) {
		lit, fixed := pattern.Fixed(p)
		if !fixed {
			return nil, false, nil
		}
		return map[string]struct{}{key(lit, true, fold): {}}, true, nil
	}

	set := make(map[string]struct{})
	for s, err := range x.All(p) {
		if err != nil {
			return nil, false, err
		}
		if lit, fixed := pattern.Fixed(s); fixed {
			set[key(lit, true, fold)] = struct{}{}
		} else {
			set[key(s, false, fold)] = struct{}{}
		}
	}
	return set, true, nil
}

// key normalises a member. Literal strings are case-folded when elements
// match case-insensitively; residual patterns are kept verbatim and tagged
// so that the pattern `a.` never collides with the literal "a.".
func key(s string, literal, fold bool) string {
	if !literal {
		return "~" + s
	}
	if fold {
		s = strings.ToLower(s)
	}
	return "=" + s
}
