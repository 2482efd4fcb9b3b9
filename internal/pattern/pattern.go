package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fixed reports whether p denotes a single literal string: every atom is a
// Literal (plain or escaped punctuation). It returns the unescaped literal
// text. The empty pattern is fixed and denotes "".
func Fixed(p string) (string, bool) {
	var b strings.Builder
	b.Grow(len(p))
	for _, a := range Atoms(p) {
		if a.Kind != Literal {
			return "", false
		}
		b.WriteRune(a.Rune)
	}
	return b.String(), true
}

// IsFixed reports whether p contains no metacharacters outside literal
// escapes.
func IsFixed(p string) bool {
	_, ok := Fixed(p)
	return ok
}

// HasTopLevelAlternation reports whether p contains a `|` outside any group.
// Textual walks over such patterns are meaningless because each branch
// starts (and ends) independently.
func HasTopLevelAlternation(p string) bool {
	depth := 0
	for _, a := range Atoms(p) {
		switch a.Kind {
		case GroupOpen:
			depth++
		case GroupClose:
			depth--
		case Alternation:
			if depth <= 0 {
				return true
			}
		}
	}
	return false
}

// TrimCaret removes a single leading `^`.
func TrimCaret(p string) string {
	return strings.TrimPrefix(p, "^")
}

// TrimDollar removes a single trailing `$` unless it is escaped.
func TrimDollar(p string) string {
	if !strings.HasSuffix(p, "$") {
		return p
	}
	if EscapedAt(p, len(p)-1) {
		return p
	}
	return p[:len(p)-1]
}

// StripAnchors removes one leading `^` and one trailing unescaped `$`.
func StripAnchors(p string) string {
	return TrimDollar(TrimCaret(p))
}

// EscapedAt reports whether the byte at p[i] is preceded by an odd number of
// backslashes.
func EscapedAt(p string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && p[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// EqualFold reports whether two runes are equal under simple Unicode case
// folding, which is what a case-insensitive compiled pattern uses.
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// EqualRune compares two runes, under simple case folding when fold is set.
func EqualRune(a, b rune, fold bool) bool {
	if fold {
		return EqualFold(a, b)
	}
	return a == b
}

// HasPrefixFold reports whether s starts with prefix under simple case
// folding.
func HasPrefixFold(s, prefix string) bool {
	return HasPrefix(s, prefix, true)
}

// HasPrefix reports whether s starts with prefix, comparing runes with
// EqualRune.
func HasPrefix(s, prefix string, fold bool) bool {
	for prefix != "" {
		if s == "" {
			return false
		}
		r1, n1 := utf8.DecodeRuneInString(s)
		r2, n2 := utf8.DecodeRuneInString(prefix)
		if !EqualRune(r1, r2, fold) {
			return false
		}
		s, prefix = s[n1:], prefix[n2:]
	}
	return true
}

// Compile compiles p with match-at-start semantics: the result only matches
// when the match begins at the first byte of the input. When foldCase is
// true the pattern is case-insensitive.
func Compile(p string, foldCase bool) (*regexp.Regexp, error) {
	// Validate the pattern on its own first so that errors refer to the
	// caller's text rather than to the wrapper.
	if _, err := regexp.Compile(p); err != nil {
		return nil, err
	}
	flags := ""
	if foldCase {
		flags = "(?i)"
	}
	return regexp.Compile(flags + `\A(?:` + p + `)`)
}

// MatchAtStart compiles p with Compile and reports whether it matches text
// at the start. Invalid patterns never match.
func MatchAtStart(p, text string, foldCase bool) bool {
	re, err := Compile(p, foldCase)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
