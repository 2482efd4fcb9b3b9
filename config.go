package relattice

import (
	"fmt"

	"github.com/coregx/relattice/expand"
	"github.com/coregx/relattice/relation"
	"github.com/rs/zerolog"
)

// IntersectPolicy selects what an Intersect verdict records.
type IntersectPolicy uint8

const (
	// IntersectLegacyDisjoint records Intersect as disjoint edges between the
	// new element and the compared element and each of its subsets. Two
	// overlapping patterns thus end up marked disjoint. This is the
	// historical behaviour and the default.
	IntersectLegacyDisjoint IntersectPolicy = iota

	// IntersectRecord records a symmetric intersect edge between the new
	// element and the compared element only.
	IntersectRecord
)

// String returns the configuration name of p.
func (p IntersectPolicy) String() string {
	switch p {
	case IntersectLegacyDisjoint:
		return "legacy-disjoint"
	case IntersectRecord:
		return "record"
	default:
		return fmt.Sprintf("IntersectPolicy(%d)", uint8(p))
	}
}

// ParseIntersectPolicy converts a name produced by String.
func ParseIntersectPolicy(s string) (IntersectPolicy, error) {
	switch s {
	case "legacy-disjoint", "":
		return IntersectLegacyDisjoint, nil
	case "record":
		return IntersectRecord, nil
	}
	return 0, &ConfigError{Field: "IntersectPolicy", Message: fmt.Sprintf("unknown policy %q", s)}
}

// Config controls how a Lattice relates and matches patterns.
//
// Example:
//
//	cfg := relattice.DefaultConfig()
//	cfg.Tests = relation.WithoutAnchor(cfg.Tests)
//	cfg.IntersectPolicy = relattice.IntersectRecord
//	l, err := relattice.NewWithConfig(cfg)
type Config struct {
	// Tests are consulted in order; the first decisive relation wins.
	Tests []relation.Test

	// IntersectPolicy selects how Intersect verdicts are recorded.
	IntersectPolicy IntersectPolicy

	// ExpandLimits bounds the expansion test. It only affects the default
	// tests; a caller-built expansion test carries its own limits.
	ExpandLimits expand.Limits

	// FoldCase compiles elements case-insensitively. Default: true.
	// Built-in tests must be built for the same case handling; for a
	// case-sensitive lattice use relation.NewTests with Options.FoldCase
	// unset.
	FoldCase bool

	// EnablePrefilter builds a literal-prefix automaton per element so that
	// matching skips the regexp engine for texts that cannot match.
	// Default: true.
	EnablePrefilter bool

	// Logger receives decisive relations at debug level and dropped edges
	// at warn level. Default: zerolog.Nop().
	Logger zerolog.Logger
}

// DefaultConfig returns the default configuration: every relation test in
// relation.DefaultOrder, legacy intersect handling, case-insensitive
// elements with prefiltering, and a silent logger.
func DefaultConfig() Config {
	limits := expand.DefaultLimits()
	return Config{
		Tests:           relation.NewDefaultTests(limits),
		IntersectPolicy: IntersectLegacyDisjoint,
		ExpandLimits:    limits,
		FoldCase:        true,
		EnablePrefilter: true,
		Logger:          zerolog.Nop(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.ExpandLimits.Validate(); err != nil {
		return &ConfigError{Field: "ExpandLimits", Message: err.Error()}
	}
	if c.IntersectPolicy > IntersectRecord {
		return &ConfigError{Field: "IntersectPolicy", Message: "must be IntersectLegacyDisjoint or IntersectRecord"}
	}
	if len(c.Tests) == 0 {
		return &ConfigError{Field: "Tests", Message: "at least one relation test is required"}
	}
	seen := make(map[string]bool, len(c.Tests))
	for i, t := range c.Tests {
		if t == nil {
			return &ConfigError{Field: "Tests", Message: fmt.Sprintf("test %d is nil", i)}
		}
		if seen[t.Name()] {
			return &ConfigError{Field: "Tests", Message: fmt.Sprintf("test %q listed twice", t.Name())}
		}
		seen[t.Name()] = true
		if cf, ok := t.(relation.CaseFolder); ok && cf.FoldsCase() != c.FoldCase {
			return &ConfigError{Field: "Tests", Message: fmt.Sprintf("test %q FoldsCase=%t disagrees with FoldCase=%t", t.Name(), cf.FoldsCase(), c.FoldCase)}
		}
	}
	return nil
}
