package relation

import (
	"errors"
	"testing"

	"github.com/coregx/relattice/expand"
	"github.com/google/go-cmp/cmp"
)

func TestRelationString(t *testing.T) {
	tests := []struct {
		r    Relation
		want string
	}{
		{None, "none"},
		{Equal, "equal"},
		{Subset, "subset"},
		{Superset, "superset"},
		{Disjoint, "disjoint"},
		{Intersect, "intersect"},
		{Relation(9), "relation(9)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Relation(%d).String() = %q, want %q", uint8(tt.r), got, tt.want)
		}
	}
}

func TestRelationInverse(t *testing.T) {
	tests := map[Relation]Relation{
		None:      None,
		Equal:     Equal,
		Subset:    Superset,
		Superset:  Subset,
		Disjoint:  Disjoint,
		Intersect: Intersect,
	}
	for r, want := range tests {
		if got := r.Inverse(); got != want {
			t.Errorf("%v.Inverse() = %v, want %v", r, got, want)
		}
		if got := r.Inverse().Inverse(); got != r {
			t.Errorf("%v.Inverse().Inverse() = %v", r, got)
		}
	}
}

func TestParse(t *testing.T) {
	for _, r := range []Relation{None, Equal, Subset, Superset, Disjoint, Intersect} {
		got, err := Parse(r.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", r.String(), err)
		}
		if got != r {
			t.Errorf("Parse(%q) = %v, want %v", r.String(), got, r)
		}
	}

	if got, err := Parse("SUPERSET"); err != nil || got != Superset {
		t.Errorf("Parse(SUPERSET) = %v, %v; want superset", got, err)
	}
	if _, err := Parse("above"); err == nil {
		t.Error("Parse(above) should fail")
	}
}

func TestTextMarshaling(t *testing.T) {
	b, err := Subset.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "subset" {
		t.Errorf("MarshalText = %q, want subset", b)
	}

	var r Relation
	if err := r.UnmarshalText([]byte("disjoint")); err != nil {
		t.Fatal(err)
	}
	if r != Disjoint {
		t.Errorf("UnmarshalText(disjoint) = %v", r)
	}
	if err := r.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("UnmarshalText should reject unknown names")
	}
}

func TestFirst(t *testing.T) {
	tests := []struct {
		lhs, rhs string
		want     Relation
		test     string
	}{
		{`\d+`, `\w+`, Subset, NameClass},
		{`\w+`, `.`, Subset, NameClass},
		{`.`, `\d+`, Superset, NameClass},
		{"abc", "abd", Disjoint, NamePrefix},
		{"a{2}", "aa", Equal, NameExpansion},
		{"/api/.*", "/api/users", Superset, NameWildcard},
		{"abc", "a.c", Subset, NameFixed},
		{"x.*", "x.*", Equal, NameEqual},
		{"^00:11:22:..:..:..", "..:..:..:..:..:..", Subset, NameAnchor},
		{"(a|b)c", "[ab]c", None, ""},
	}

	tests2 := DefaultTests()
	for _, tt := range tests {
		t.Run(tt.lhs+" vs "+tt.rhs, func(t *testing.T) {
			got, name, err := First(tests2, tt.lhs, tt.rhs)
			if err != nil {
				t.Fatalf("First error: %v", err)
			}
			if got != tt.want || name != tt.test {
				t.Errorf("First(%q, %q) = (%v, %q), want (%v, %q)", tt.lhs, tt.rhs, got, name, tt.want, tt.test)
			}
		})
	}
}

func TestFirstPropagatesErrors(t *testing.T) {
	_, name, err := First(DefaultTests(), "a{5,2}", "a")
	if !errors.Is(err, expand.ErrMalformedRepetition) {
		t.Fatalf("error = %v, want ErrMalformedRepetition", err)
	}
	if name != NameExpansion {
		t.Errorf("failing test = %q, want %q", name, NameExpansion)
	}
}

func TestFirstNoTests(t *testing.T) {
	got, name, err := First(nil, "a", "a")
	if err != nil || got != None || name != "" {
		t.Errorf("First(nil) = (%v, %q, %v), want (none, \"\", nil)", got, name, err)
	}
}

func testNames(tests []Test) []string {
	out := make([]string, len(tests))
	for i, t := range tests {
		out[i] = t.Name()
	}
	return out
}

func TestResolve(t *testing.T) {
	got, err := Resolve([]string{NameAnchor, NameEqual}, expand.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{NameAnchor, NameEqual}, testNames(got)); diff != "" {
		t.Errorf("Resolve order mismatch (-want +got):\n%s", diff)
	}

	if _, err := Resolve([]string{NameEqual, NameEqual}, expand.DefaultLimits()); err == nil {
		t.Error("Resolve should reject duplicate names")
	}
	if _, err := Resolve([]string{"levenshtein"}, expand.DefaultLimits()); err == nil {
		t.Error("Resolve should reject unknown names")
	}
}

func TestDefaultTests(t *testing.T) {
	if diff := cmp.Diff(DefaultOrder, testNames(DefaultTests())); diff != "" {
		t.Errorf("DefaultTests order mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		NameExpansion, NamePrefix, NameSuffix, NameEqual,
		NameWildcard, NameFixed, NameClass,
	}
	if diff := cmp.Diff(want, testNames(WithoutAnchor(DefaultTests()))); diff != "" {
		t.Errorf("WithoutAnchor mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFunc(t *testing.T) {
	calls := 0
	f := NewFunc("always", func(lhs, rhs string) (Relation, error) {
		calls++
		return Intersect, nil
	})
	got, name, err := First([]Test{f, Exact}, "a", "a")
	if err != nil || got != Intersect || name != "always" {
		t.Errorf("First = (%v, %q, %v), want (intersect, always, nil)", got, name, err)
	}
	if calls != 1 {
		t.Errorf("custom test called %d times, want 1", calls)
	}
}

func TestResolveCaseSensitive(t *testing.T) {
	opts := DefaultOptions()
	opts.FoldCase = false
	tests, err := ResolveOptions(DefaultOrder, opts)
	if err != nil {
		t.Fatal(err)
	}

	pairs := []struct {
		lhs, rhs string
		want     Relation
	}{
		{"ABC", "abc.*", Disjoint},
		{"abcd", "abc.*", Subset},
		{"Ab", "ab", Disjoint},
		{"xA", "xa", Disjoint},
		{"[A-Z]+", "[a-z]+", Disjoint},
		{"a", "A", Disjoint},
	}
	for _, p := range pairs {
		got, _, err := First(tests, p.lhs, p.rhs)
		if err != nil {
			t.Fatal(err)
		}
		if got != p.want {
			t.Errorf("First(%q, %q) = %v, want %v", p.lhs, p.rhs, got, p.want)
		}
	}

	for _, test := range tests {
		if cf, ok := test.(CaseFolder); ok && cf.FoldsCase() {
			t.Errorf("%s folds case", test.Name())
		}
	}
	for _, test := range DefaultTests() {
		if cf, ok := test.(CaseFolder); ok && !cf.FoldsCase() {
			t.Errorf("default %s does not fold case", test.Name())
		}
	}
	if _, ok := Exact.(CaseFolder); ok {
		t.Error("textual equality does not depend on case handling")
	}
}
