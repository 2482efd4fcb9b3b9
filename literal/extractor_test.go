package literal

import (
	"regexp"
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRequiredPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"hello", []string{"hello"}},
		{"Hello", []string{"hello"}},
		{"^/api/.*", []string{"/api/"}},
		{"/(api|web)/.*", []string{"/api/", "/web/"}},
		{"(foo|foobar)x", []string{"foobarx", "foox"}},
		{"(foo|foo.*)", []string{"foo"}},
		{"[abc]x", []string{"ax", "bx", "cx"}},
		{"[a-c]{2}", []string{"a", "b", "c"}},
		{`\d+px`, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}},
		{"ab+c", []string{"ab"}},
		{"ab?c", []string{"a"}},
		{`00:11:22:33:44:55$`, []string{"00:11:22:33:44:55"}},
		{`\bword`, []string{"word"}},
		{"(a|b)(c|d)", []string{"ac", "ad", "bc", "bd"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, ok := RequiredPrefixes(tt.pattern)
			if !ok {
				t.Fatalf("RequiredPrefixes(%q) found no prefixes", tt.pattern)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RequiredPrefixes(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestRequiredPrefixesNone(t *testing.T) {
	for _, p := range []string{
		".*foo",
		"..:..",
		`\w+`,
		"a*b",
		"(foo)?bar",
		"foo|.*",
		"[a-z]x",
		"^",
		"",
		"café",
		"(",
	} {
		if got, ok := RequiredPrefixes(p); ok {
			t.Errorf("RequiredPrefixes(%q) = %q, want none", p, got)
		}
	}
}

func TestLimits(t *testing.T) {
	parse := func(p string) *syntax.Regexp {
		t.Helper()
		re, err := syntax.Parse(p, syntax.Perl|syntax.FoldCase)
		if err != nil {
			t.Fatal(err)
		}
		return re
	}

	t.Run("literal length", func(t *testing.T) {
		x := New(ExtractorConfig{MaxLiterals: 8, MaxLiteralLen: 3, MaxClassSize: 4})
		seq, ok := x.RequiredPrefixes(parse("abcdef"))
		if !ok {
			t.Fatal("expected prefixes")
		}
		if diff := cmp.Diff([]string{"abc"}, seq.Strings()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if seq.Get(0).Complete {
			t.Error("a cut literal must be inexact")
		}
	})

	t.Run("literal count", func(t *testing.T) {
		x := New(ExtractorConfig{MaxLiterals: 3, MaxLiteralLen: 16, MaxClassSize: 4})
		seq, ok := x.RequiredPrefixes(parse("(a|b)(c|d)"))
		if !ok {
			t.Fatal("expected prefixes")
		}
		if diff := cmp.Diff([]string{"a", "b"}, seq.Strings()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("class size", func(t *testing.T) {
		x := New(ExtractorConfig{MaxLiterals: 64, MaxLiteralLen: 16, MaxClassSize: 2})
		if _, ok := x.RequiredPrefixes(parse("[abc]")); ok {
			t.Error("class larger than MaxClassSize should give no prefixes")
		}
	})
}

// Every ASCII text a pattern matches at its start must begin with one of
// the extracted prefixes.
func TestRequiredPrefixesAreSound(t *testing.T) {
	cases := map[string][]string{
		"/(api|web)/.*":   {"/api/x", "/WEB/", "/Api/users/1"},
		`\d+px`:           {"12px", "0px"},
		"(foo|foobar)x":   {"foox", "FOOBARX"},
		"ab+c":            {"abbbc", "ABC"},
		`00:11:22:..:..$`: {"00:11:22:aa:bb"},
	}
	for p, texts := range cases {
		prefixes, ok := RequiredPrefixes(p)
		if !ok {
			t.Fatalf("RequiredPrefixes(%q) found no prefixes", p)
		}
		re := regexp.MustCompile(`(?i)\A(?:` + p + `)`)
		for _, text := range texts {
			if !re.MatchString(text) {
				t.Fatalf("fixture %q does not match %q", text, p)
			}
			lower := strings.ToLower(text)
			found := false
			for _, pre := range prefixes {
				if strings.HasPrefix(lower, pre) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%q matches %q but starts with none of %q", text, p, prefixes)
			}
		}
	}
}
