// Package pattern splits regular-expression text into atoms and answers the
// purely textual questions asked by the relation tests and the expander:
// is a pattern fixed, where are its repetition sites, what literal text
// does it start or end with.
//
// The scanner is deliberately shallow. It does not build a syntax tree; it
// only recognises enough structure (escapes, bracket classes, groups,
// quantifiers) to tell literal characters apart from constructs.
package pattern

import (
	"strings"
	"unicode/utf8"
)

// Kind classifies an atom.
type Kind uint8

const (
	// Literal is a plain character or an escaped literal such as `\.` or `\n`.
	Literal Kind = iota
	// Class matches one character out of a set: `.`, `\d`, `[a-z]`, `\pL`.
	Class
	// GroupOpen is `(`, `(?:`, `(?i:` or `(?P<name>`.
	GroupOpen
	// GroupClose is `)`.
	GroupClose
	// Alternation is `|`.
	Alternation
	// Quantifier is `*`, `+`, `?`, `{n}`, `{n,}` or `{n,m}`, with an optional
	// trailing lazy `?`.
	Quantifier
	// Anchor is a zero-width assertion: `^`, `$`, `\A`, `\z`, `\b`, `\B`.
	Anchor
	// Flags is a flag group without a body such as `(?i)`.
	Flags
)

var kindNames = [...]string{
	Literal:     "literal",
	Class:       "class",
	GroupOpen:   "group-open",
	GroupClose:  "group-close",
	Alternation: "alternation",
	Quantifier:  "quantifier",
	Anchor:      "anchor",
	Flags:       "flags",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Atom is one lexical unit of a pattern.
type Atom struct {
	Kind Kind
	// Text is the exact source text of the atom.
	Text string
	// Rune is the character a Literal atom stands for.
	Rune rune
	// Start and End are byte offsets of Text in the pattern.
	Start, End int
}

// Escaped reports whether the atom was written with a backslash.
func (a Atom) Escaped() bool {
	return strings.HasPrefix(a.Text, `\`)
}

// Atoms splits p into atoms from left to right. Malformed constructs (an
// unterminated class, a trailing backslash) are returned as Class atoms
// covering the rest of the pattern; callers treat them as opaque.
func Atoms(p string) []Atom {
	atoms := make([]Atom, 0, len(p))
	for i := 0; i < len(p); {
		a := next(p, i)
		atoms = append(atoms, a)
		i = a.End
	}
	return atoms
}

func next(p string, i int) Atom {
	c := p[i]
	switch c {
	case '\\':
		return escape(p, i)
	case '[':
		return bracket(p, i)
	case '(':
		return group(p, i)
	case ')':
		return Atom{Kind: GroupClose, Text: ")", Start: i, End: i + 1}
	case '|':
		return Atom{Kind: Alternation, Text: "|", Start: i, End: i + 1}
	case '^', '$':
		return Atom{Kind: Anchor, Text: p[i : i+1], Start: i, End: i + 1}
	case '.':
		return Atom{Kind: Class, Text: ".", Start: i, End: i + 1}
	case '*', '+', '?':
		end := i + 1
		if end < len(p) && p[end] == '?' {
			end++
		}
		return Atom{Kind: Quantifier, Text: p[i:end], Start: i, End: end}
	case '{':
		if _, _, end, ok := ParseRepeat(p, i); ok {
			if end < len(p) && p[end] == '?' {
				end++
			}
			return Atom{Kind: Quantifier, Text: p[i:end], Start: i, End: end}
		}
	}
	r, size := utf8.DecodeRuneInString(p[i:])
	return Atom{Kind: Literal, Text: p[i : i+size], Rune: r, Start: i, End: i + size}
}

func escape(p string, i int) Atom {
	if i+1 >= len(p) {
		return Atom{Kind: Class, Text: p[i:], Start: i, End: len(p)}
	}
	r, size := utf8.DecodeRuneInString(p[i+1:])
	end := i + 1 + size
	lit := func(r rune) Atom {
		return Atom{Kind: Literal, Text: p[i:end], Rune: r, Start: i, End: end}
	}
	switch r {
	case 'd', 'D', 'w', 'W', 's', 'S', 'C':
		return Atom{Kind: Class, Text: p[i:end], Start: i, End: end}
	case 'p', 'P':
		if end < len(p) && p[end] == '{' {
			if j := strings.IndexByte(p[end:], '}'); j >= 0 {
				end += j + 1
			}
		} else if end < len(p) {
			_, sz := utf8.DecodeRuneInString(p[end:])
			end += sz
		}
		return Atom{Kind: Class, Text: p[i:end], Start: i, End: end}
	case 'A', 'z', 'b', 'B':
		return Atom{Kind: Anchor, Text: p[i:end], Start: i, End: end}
	case 'n':
		return lit('\n')
	case 't':
		return lit('\t')
	case 'r':
		return lit('\r')
	case 'f':
		return lit('\f')
	case 'v':
		return lit('\v')
	case 'a':
		return lit('\a')
	}
	if r < utf8.RuneSelf && !isAlnum(byte(r)) {
		return lit(r)
	}
	// \x41, \Q...\E, octal and anything else we do not decode.
	return Atom{Kind: Class, Text: p[i:end], Start: i, End: end}
}

func bracket(p string, i int) Atom {
	j := i + 1
	if j < len(p) && p[j] == '^' {
		j++
	}
	// A leading ] is a literal member.
	if j < len(p) && p[j] == ']' {
		j++
	}
	for j < len(p) {
		switch {
		case p[j] == '\\':
			j += 2
			continue
		case strings.HasPrefix(p[j:], "[:"):
			if k := strings.Index(p[j+2:], ":]"); k >= 0 {
				j += k + 4
				continue
			}
		case p[j] == ']':
			return Atom{Kind: Class, Text: p[i : j+1], Start: i, End: j + 1}
		}
		j++
	}
	return Atom{Kind: Class, Text: p[i:], Start: i, End: len(p)}
}

func group(p string, i int) Atom {
	if !strings.HasPrefix(p[i:], "(?") {
		return Atom{Kind: GroupOpen, Text: "(", Start: i, End: i + 1}
	}
	// Named group: (?P<name> or (?<name>
	if strings.HasPrefix(p[i:], "(?P<") || strings.HasPrefix(p[i:], "(?<") {
		if k := strings.IndexByte(p[i:], '>'); k >= 0 {
			return Atom{Kind: GroupOpen, Text: p[i : i+k+1], Start: i, End: i + k + 1}
		}
	}
	for j := i + 2; j < len(p); j++ {
		switch p[j] {
		case ':':
			return Atom{Kind: GroupOpen, Text: p[i : j+1], Start: i, End: j + 1}
		case ')':
			return Atom{Kind: Flags, Text: p[i : j+1], Start: i, End: j + 1}
		}
	}
	return Atom{Kind: GroupOpen, Text: p[i:], Start: i, End: len(p)}
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// ParseRepeat parses a counted repetition `{n}`, `{n,}` or `{n,m}` at p[i].
// hi is -1 for the open-ended form. end is the offset just past `}`.
// ok is false when p[i:] does not start with a well-formed repetition, in
// which case RE2 treats the brace as a literal.
func ParseRepeat(p string, i int) (lo, hi, end int, ok bool) {
	if i >= len(p) || p[i] != '{' {
		return 0, 0, 0, false
	}
	j := i + 1
	lo, j, ok = digits(p, j)
	if !ok || j >= len(p) {
		return 0, 0, 0, false
	}
	switch p[j] {
	case '}':
		return lo, lo, j + 1, true
	case ',':
		j++
		if j < len(p) && p[j] == '}' {
			return lo, -1, j + 1, true
		}
		hi, j, ok = digits(p, j)
		if !ok || j >= len(p) || p[j] != '}' {
			return 0, 0, 0, false
		}
		return lo, hi, j + 1, true
	}
	return 0, 0, 0, false
}

// digits reads a decimal number. Values are capped well above RE2's own
// repetition limit so that absurd counts cannot overflow.
func digits(p string, i int) (n, end int, ok bool) {
	start := i
	for i < len(p) && p[i] >= '0' && p[i] <= '9' {
		if n < 1<<20 {
			n = n*10 + int(p[i]-'0')
		}
		i++
	}
	return n, i, i > start
}
