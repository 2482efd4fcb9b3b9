package relation

import (
	"fmt"

	"github.com/coregx/relattice/expand"
	"github.com/rs/zerolog"
)

// Test is one pairwise heuristic. Compare returns None with a nil error when
// the heuristic does not apply. A non-nil error is fatal for the caller's
// operation (for example a malformed repetition found while expanding).
type Test interface {
	Name() string
	Compare(lhs, rhs string) (Relation, error)
}

// Func adapts a plain function to the Test interface.
type Func struct {
	name string
	fn   func(lhs, rhs string) (Relation, error)
}

// NewFunc returns a Test named name that calls fn.
func NewFunc(name string, fn func(lhs, rhs string) (Relation, error)) Func {
	return Func{name: name, fn: fn}
}

// Name implements Test.
func (f Func) Name() string { return f.name }

// Compare implements Test.
func (f Func) Compare(lhs, rhs string) (Relation, error) { return f.fn(lhs, rhs) }

// infallible wraps a test that cannot fail.
func infallible(name string, fn func(lhs, rhs string) Relation) Func {
	return NewFunc(name, func(lhs, rhs string) (Relation, error) {
		return fn(lhs, rhs), nil
	})
}

// CaseFolder is implemented by tests whose verdict depends on whether
// patterns match case-insensitively. A lattice rejects such a test when its
// FoldsCase disagrees with the lattice's own case handling.
type CaseFolder interface {
	FoldsCase() bool
}

// caseFunc is a Func built for one case mode.
type caseFunc struct {
	Func
	fold bool
}

// FoldsCase implements CaseFolder.
func (f caseFunc) FoldsCase() bool { return f.fold }

func caseTest(name string, fold bool, fn func(lhs, rhs string, fold bool) Relation) caseFunc {
	return caseFunc{
		Func: infallible(name, func(lhs, rhs string) Relation { return fn(lhs, rhs, fold) }),
		fold: fold,
	}
}

// Options parameterises the tests built by ResolveOptions and NewTests.
type Options struct {
	// Limits bounds the expansion test.
	Limits expand.Limits

	// FoldCase compares pattern text case-insensitively. It must match the
	// case handling of the elements being compared.
	FoldCase bool

	// Logger receives expansions abandoned for exceeding Limits, at warn
	// level.
	Logger zerolog.Logger
}

// DefaultOptions returns default limits, case folding and a silent logger.
func DefaultOptions() Options {
	return Options{
		Limits:   expand.DefaultLimits(),
		FoldCase: true,
		Logger:   zerolog.Nop(),
	}
}

// Test names accepted by Resolve.
const (
	NameExpansion = "expand"
	NamePrefix    = "prefix"
	NameSuffix    = "suffix"
	NameEqual     = "equal"
	NameWildcard  = "wildcard"
	NameFixed     = "fixed"
	NameClass     = "class"
	NameAnchor    = "anchor"
)

// The stateless case-insensitive tests. Expansion depends on limits; see
// NewExpansion.
var (
	Prefix           Test = caseTest(NamePrefix, true, comparePrefix)
	Suffix           Test = caseTest(NameSuffix, true, compareSuffix)
	Exact            Test = infallible(NameEqual, CompareEqual)
	TrailingWildcard Test = caseTest(NameWildcard, true, compareTrailingWildcard)
	FixedString      Test = caseTest(NameFixed, true, compareFixed)
	CharClass        Test = caseTest(NameClass, true, compareClass)
	Anchor           Test = caseTest(NameAnchor, true, compareAnchor)
)

// DefaultOrder is the order used by DefaultTests.
var DefaultOrder = []string{
	NameExpansion,
	NamePrefix,
	NameSuffix,
	NameEqual,
	NameWildcard,
	NameFixed,
	NameClass,
	NameAnchor,
}

// DefaultTests returns every test in DefaultOrder with default expansion
// limits.
func DefaultTests() []Test {
	return NewDefaultTests(expand.DefaultLimits())
}

// NewDefaultTests returns every case-insensitive test in DefaultOrder,
// expanding under limits.
func NewDefaultTests(limits expand.Limits) []Test {
	opts := DefaultOptions()
	opts.Limits = limits
	return NewTests(opts)
}

// NewTests returns every test in DefaultOrder built with opts.
func NewTests(opts Options) []Test {
	tests, err := ResolveOptions(DefaultOrder, opts)
	if err != nil {
		panic(err)
	}
	return tests
}

// WithoutAnchor returns tests minus the anchor-matching heuristic, which can
// report containment for unanchored patterns that merely share a prefix.
func WithoutAnchor(tests []Test) []Test {
	out := make([]Test, 0, len(tests))
	for _, t := range tests {
		if t.Name() != NameAnchor {
			out = append(out, t)
		}
	}
	return out
}

// Resolve maps test names to case-insensitive tests, preserving order.
func Resolve(names []string, limits expand.Limits) ([]Test, error) {
	opts := DefaultOptions()
	opts.Limits = limits
	return ResolveOptions(names, opts)
}

// ResolveOptions maps test names to tests built with opts, preserving order.
func ResolveOptions(names []string, opts Options) ([]Test, error) {
	out := make([]Test, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("relation: test %q listed twice", n)
		}
		seen[n] = true

		var t Test
		switch n {
		case NameExpansion:
			t = newExpansion(opts)
		case NamePrefix:
			t = caseTest(n, opts.FoldCase, comparePrefix)
		case NameSuffix:
			t = caseTest(n, opts.FoldCase, compareSuffix)
		case NameEqual:
			t = Exact
		case NameWildcard:
			t = caseTest(n, opts.FoldCase, compareTrailingWildcard)
		case NameFixed:
			t = caseTest(n, opts.FoldCase, compareFixed)
		case NameClass:
			t = caseTest(n, opts.FoldCase, compareClass)
		case NameAnchor:
			t = caseTest(n, opts.FoldCase, compareAnchor)
		default:
			return nil, fmt.Errorf("relation: unknown test %q", n)
		}
		out = append(out, t)
	}
	return out, nil
}

// First runs tests in order and returns the first decisive relation together
// with the name of the test that decided it. It returns None and an empty
// name when every test is inconclusive.
func First(tests []Test, lhs, rhs string) (Relation, string, error) {
	for _, t := range tests {
		r, err := t.Compare(lhs, rhs)
		if err != nil {
			return None, t.Name(), err
		}
		if r.Decisive() {
			return r, t.Name(), nil
		}
	}
	return None, "", nil
}
