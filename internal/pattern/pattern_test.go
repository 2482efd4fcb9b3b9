package pattern

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kinds(atoms []Atom) []Kind {
	out := make([]Kind, len(atoms))
	for i, a := range atoms {
		out[i] = a.Kind
	}
	return out
}

func TestAtoms(t *testing.T) {
	tests := []struct {
		pattern string
		want    []Kind
	}{
		{"abc", []Kind{Literal, Literal, Literal}},
		{`\d+`, []Kind{Class, Quantifier}},
		{`a\.b`, []Kind{Literal, Literal, Literal}},
		{"[a-z]*?", []Kind{Class, Quantifier}},
		{"[]a]", []Kind{Class}},
		{"[[:alpha:]]x", []Kind{Class, Literal}},
		{"(?:ab)|c", []Kind{GroupOpen, Literal, Literal, GroupClose, Alternation, Literal}},
		{"(?i)a", []Kind{Flags, Literal}},
		{"(?P<n>x)", []Kind{GroupOpen, Literal, GroupClose}},
		{"^a{2,3}$", []Kind{Anchor, Literal, Quantifier, Anchor}},
		{"a{,3}", []Kind{Literal, Literal, Literal, Literal, Literal}},
		{`\pL\p{Greek}`, []Kind{Class, Class}},
		{`\bx\z`, []Kind{Anchor, Literal, Anchor}},
		{`é.`, []Kind{Literal, Class}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := kinds(Atoms(tt.pattern))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Atoms(%q) kinds mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestAtomsCoverInput(t *testing.T) {
	// Concatenating atom texts must reproduce the pattern exactly.
	for _, p := range []string{`a(b|c)*\d{1,3}[x\]y]$`, `\`, `[abc`, `(?`, `x{2`} {
		var got string
		for _, a := range Atoms(p) {
			got += a.Text
		}
		if got != p {
			t.Errorf("atoms of %q reassemble to %q", p, got)
		}
	}
}

func TestParseRepeat(t *testing.T) {
	tests := []struct {
		in          string
		lo, hi, end int
		ok          bool
	}{
		{"{3}", 3, 3, 3, true},
		{"{1,3}", 1, 3, 5, true},
		{"{2,}", 2, -1, 4, true},
		{"{5,2}", 5, 2, 5, true},
		{"{,2}", 0, 0, 0, false},
		{"{a}", 0, 0, 0, false},
		{"{1,2", 0, 0, 0, false},
	}
	for _, tt := range tests {
		lo, hi, end, ok := ParseRepeat(tt.in, 0)
		if ok != tt.ok || lo != tt.lo || hi != tt.hi || end != tt.end {
			t.Errorf("ParseRepeat(%q) = (%d, %d, %d, %v), want (%d, %d, %d, %v)",
				tt.in, lo, hi, end, ok, tt.lo, tt.hi, tt.end, tt.ok)
		}
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
		ok      bool
	}{
		{"abc", "abc", true},
		{`a\.b`, "a.b", true},
		{`\/api\/v1`, "/api/v1", true},
		{"", "", true},
		{"a.b", "", false},
		{`\d`, "", false},
		{"a+", "", false},
		{"^abc$", "", false},
		{"a{2}", "", false},
	}
	for _, tt := range tests {
		got, ok := Fixed(tt.pattern)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Fixed(%q) = (%q, %v), want (%q, %v)", tt.pattern, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHasTopLevelAlternation(t *testing.T) {
	tests := map[string]bool{
		"a|b":     true,
		"(a|b)c":  false,
		`a\|b`:    false,
		"[|]":     false,
		"(a)|(b)": true,
	}
	for p, want := range tests {
		if got := HasTopLevelAlternation(p); got != want {
			t.Errorf("HasTopLevelAlternation(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestStripAnchors(t *testing.T) {
	tests := map[string]string{
		"^abc$":  "abc",
		"abc":    "abc",
		`abc\$`:  `abc\$`,
		`abc\\$`: `abc\\`,
		"^^a":    "^a",
	}
	for in, want := range tests {
		if got := StripAnchors(in); got != want {
			t.Errorf("StripAnchors(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasPrefixFold(t *testing.T) {
	if !HasPrefixFold("Hello world", "hELLO") {
		t.Error("case-insensitive prefix should match")
	}
	if HasPrefixFold("he", "hello") {
		t.Error("longer prefix must not match")
	}
	if !HasPrefixFold("ΣΑΣ", "σα") {
		t.Error("greek sigma should fold")
	}
	if HasPrefix("Hello world", "hELLO", false) {
		t.Error("case-sensitive prefix should not match")
	}
	if !HasPrefix("Hello world", "Hello", false) {
		t.Error("exact prefix should match")
	}
	if EqualRune('a', 'A', false) || !EqualRune('a', 'A', true) {
		t.Error("EqualRune must honour fold")
	}
}

func TestCompileMatchesAtStart(t *testing.T) {
	re, err := Compile(`a|b`, true)
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("Bcd") {
		t.Error("alternation should be grouped and case-insensitive")
	}
	if re.MatchString("xb") {
		t.Error("match must start at the beginning of the input")
	}

	if _, err := Compile("(", false); err == nil {
		t.Error("invalid pattern should fail to compile")
	}
	if MatchAtStart("(", "(", false) {
		t.Error("invalid pattern should never match")
	}
}
