package relattice

import (
	"regexp/syntax"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/relattice/literal"
)

// prefixFilter rejects texts that cannot start with any literal prefix the
// element requires. A nil filter admits everything.
//
// Patterns are stored behind a NUL sentinel and the haystack is the
// sentinel followed by the lower-cased text, so any automaton hit is a hit
// at the start of the text.
type prefixFilter struct {
	ac *ahocorasick.Automaton
}

const sentinel = 0

func newPrefixFilter(x *literal.Extractor, expr string) *prefixFilter {
	re, err := syntax.Parse(expr, syntax.Perl|syntax.FoldCase)
	if err != nil {
		return nil
	}
	seq, ok := x.RequiredPrefixes(re)
	if !ok {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range seq.Literals() {
		pattern := make([]byte, 0, lit.Len()+1)
		pattern = append(pattern, sentinel)
		builder.AddPattern(append(pattern, lit.Bytes...))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &prefixFilter{ac: auto}
}

// admits reports whether the prepared haystack may match. A nil haystack
// means the text is outside the filter's domain and is always admitted.
func (f *prefixFilter) admits(haystack []byte) bool {
	if f == nil || haystack == nil {
		return true
	}
	return f.ac.IsMatch(haystack)
}

// appendHaystack appends the sentinel and the lower-cased text to dst. It
// returns nil when the text contains non-ASCII bytes or a NUL, where the
// byte-level check would not be exact.
func appendHaystack(dst []byte, text string) []byte {
	dst = append(dst[:0], sentinel)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= utf8.RuneSelf || c == sentinel {
			return nil
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		dst = append(dst, c)
	}
	return dst
}
