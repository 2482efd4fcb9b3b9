package literal

import (
	"regexp/syntax"
	"unicode/utf8"
)

// ExtractorConfig bounds literal extraction.
type ExtractorConfig struct {
	// MaxLiterals caps the number of alternative prefixes. A concatenation
	// whose cross product would exceed it stops extending. Default: 64.
	MaxLiterals int

	// MaxLiteralLen caps the length of each prefix; longer prefixes are cut
	// and become inexact. Default: 64.
	MaxLiteralLen int

	// MaxClassSize caps the number of ASCII runes a character class may
	// contribute, so `[a-z]` does not multiply the set by 26. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes required prefixes from a parsed pattern.
//
// The result describes ASCII texts only: prefixes are lower-cased, and
// non-ASCII runes in classes are ignored. Callers must skip the check for
// texts containing non-ASCII bytes, where case folding is not a simple
// byte mapping.
//
// Example:
//
//	re, _ := syntax.Parse(`/(api|web)/.*`, syntax.Perl|syntax.FoldCase)
//	seq, ok := literal.New(literal.DefaultConfig()).RequiredPrefixes(re)
//	// ok == true, seq.Strings() == ["/api/", "/web/"]
type Extractor struct {
	config ExtractorConfig
}

// New returns an Extractor using config.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// RequiredPrefixes returns a minimized set of prefixes such that every ASCII
// text re matches at its start begins with one of them. ok is false when no
// useful requirement exists (the pattern can start with anything, or the
// set would be too large).
func (e *Extractor) RequiredPrefixes(re *syntax.Regexp) (*Seq, bool) {
	seq, ok := e.prefixes(re, 0)
	if !ok || seq.IsEmpty() || seq.HasEmpty() {
		return nil, false
	}
	seq.Minimize()
	return seq, true
}

// RequiredPrefixes parses p case-insensitively and extracts its required
// prefixes with the default configuration.
func RequiredPrefixes(p string) ([]string, bool) {
	re, err := syntax.Parse(p, syntax.Perl|syntax.FoldCase)
	if err != nil {
		return nil, false
	}
	seq, ok := New(DefaultConfig()).RequiredPrefixes(re)
	if !ok {
		return nil, false
	}
	return seq.Strings(), true
}

func emptyExact() *Seq {
	return NewSeq(NewLiteral(nil, true))
}

func (e *Extractor) prefixes(re *syntax.Regexp, depth int) (*Seq, bool) {
	// Guard against pathological nesting.
	if depth > 100 {
		return nil, false
	}

	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpBeginText,
		syntax.OpEndLine, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// Zero-width: constrains position but consumes nothing.
		return emptyExact(), true

	case syntax.OpLiteral:
		b := make([]byte, 0, len(re.Rune))
		for _, r := range re.Rune {
			if r >= utf8.RuneSelf {
				return nil, false
			}
			b = append(b, lowerASCII(byte(r)))
		}
		return e.bounded(NewSeq(NewLiteral(b, true))), true

	case syntax.OpCharClass:
		return e.class(re.Rune)

	case syntax.OpCapture:
		return e.prefixes(re.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.concat(re.Sub, depth)

	case syntax.OpAlternate:
		var lits []Literal
		for _, sub := range re.Sub {
			seq, ok := e.prefixes(sub, depth+1)
			if !ok {
				return nil, false
			}
			lits = append(lits, seq.Literals()...)
			if len(lits) > e.config.MaxLiterals {
				return nil, false
			}
		}
		return NewSeq(lits...), true

	case syntax.OpPlus:
		// The first repetition is required; what follows it is unknown.
		seq, ok := e.prefixes(re.Sub[0], depth+1)
		if !ok {
			return nil, false
		}
		seq.MakeInexact()
		return seq, true

	case syntax.OpRepeat:
		if re.Min == 0 {
			return nil, false
		}
		seq, ok := e.prefixes(re.Sub[0], depth+1)
		if !ok {
			return nil, false
		}
		seq.MakeInexact()
		return seq, true
	}

	// OpStar, OpQuest, OpAnyChar, OpAnyCharNotNL, OpNoMatch: no requirement.
	return nil, false
}

// concat extends prefixes across the parts of a concatenation for as long as
// they stay exact.
func (e *Extractor) concat(subs []*syntax.Regexp, depth int) (*Seq, bool) {
	cur := emptyExact()
	for _, sub := range subs {
		if !anyComplete(cur) {
			break
		}
		next, ok := e.prefixes(sub, depth+1)
		if !ok {
			cur.MakeInexact()
			break
		}
		if product(cur, next) > e.config.MaxLiterals {
			cur.MakeInexact()
			break
		}
		cur = e.bounded(cross(cur, next))
	}
	return cur, true
}

func (e *Extractor) class(ranges []rune) (*Seq, bool) {
	var set [utf8.RuneSelf]bool
	n := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo >= utf8.RuneSelf {
			break
		}
		hi = min(hi, utf8.RuneSelf-1)
		if int(hi-lo)+1 > e.config.MaxClassSize*2 {
			return nil, false
		}
		for r := lo; r <= hi; r++ {
			c := lowerASCII(byte(r))
			if !set[c] {
				set[c] = true
				n++
			}
		}
		if n > e.config.MaxClassSize {
			return nil, false
		}
	}
	if n == 0 {
		return nil, false
	}

	lits := make([]Literal, 0, n)
	for c := range set {
		if set[c] {
			lits = append(lits, NewLiteral([]byte{byte(c)}, true))
		}
	}
	return NewSeq(lits...), true
}

// bounded cuts literals longer than MaxLiteralLen.
func (e *Extractor) bounded(s *Seq) *Seq {
	for i, lit := range s.literals {
		if len(lit.Bytes) > e.config.MaxLiteralLen {
			s.literals[i] = NewLiteral(lit.Bytes[:e.config.MaxLiteralLen], false)
		}
	}
	return s
}

func anyComplete(s *Seq) bool {
	for _, lit := range s.Literals() {
		if lit.Complete {
			return true
		}
	}
	return false
}

func product(cur, next *Seq) int {
	n := 0
	for _, lit := range cur.Literals() {
		if lit.Complete {
			n += next.Len()
		} else {
			n++
		}
	}
	return n
}

// cross appends every literal of next to every complete literal of cur.
// Inexact literals of cur are carried over unchanged.
func cross(cur, next *Seq) *Seq {
	out := make([]Literal, 0, product(cur, next))
	for _, a := range cur.Literals() {
		if !a.Complete {
			out = append(out, a)
			continue
		}
		for _, b := range next.Literals() {
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(append(joined, a.Bytes...), b.Bytes...)
			out = append(out, NewLiteral(joined, b.Complete))
		}
	}
	return NewSeq(out...)
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
