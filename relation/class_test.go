package relation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompareClass(t *testing.T) {
	runPairs(t, "CompareClass", CompareClass, []pairCase{
		{`\d+`, `\w+`, Subset},
		{`\w+`, `.`, Subset},
		{`\d+`, `.`, Subset},
		{`.`, `\d+`, Superset},
		{`\d`, `[0-9]`, Equal},
		{`[0-9]{2,4}`, `\d`, Equal},
		{`^\d+`, `\d+`, Equal},
		{`(\d+)`, `(\w+)`, Subset},
		{`[a-f]`, `[d-k]`, Intersect},
		{`\d+`, `[a-z]+`, Disjoint},
		{`a`, `[a-z]`, Subset},
		{`A`, `a`, Equal},
		{`x*`, `\d`, Superset},
		{`\d`, `y?`, Subset},
		{`x*`, `[0-9]{0,3}`, Equal},
		{`.`, `\n`, Disjoint},
		{`ab`, `a`, None},
		{`\d+$`, `\d`, None},
		{`(`, `a`, None},
	})
}

func TestRuneSetNormalize(t *testing.T) {
	got := normalize([]rune{'x', 'z', 'a', 'c', 'd', 'f', 'y', 'y'})
	want := []rune{'a', 'f', 'x', 'z'}
	if diff := cmp.Diff(want, got.ranges); diff != "" {
		t.Errorf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestRuneSetWithin(t *testing.T) {
	digits := runeSet{ranges: []rune{'0', '9'}}
	word := runeSet{ranges: []rune{'0', '9', 'A', 'Z', '_', '_', 'a', 'z'}}
	if !digits.within(word) {
		t.Error("digits should be within word")
	}
	if word.within(digits) {
		t.Error("word should not be within digits")
	}
	if !digits.overlaps(word) || !word.overlaps(digits) {
		t.Error("digits and word should overlap")
	}
	empty := runeSet{}
	if !empty.within(digits) {
		t.Error("the empty set is within every set")
	}
	if empty.overlaps(digits) {
		t.Error("the empty set overlaps nothing")
	}
}
