// Package config loads pattern-set files for the relattice command.
//
// A pattern set is read from TOML or YAML, then overridden by RELATTICE_*
// environment variables (RELATTICE_LATTICE_STRICT=true sets lattice.strict).
// Numeric limits may be integer expressions such as "64 * 64".
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/coregx/relattice"
	"github.com/coregx/relattice/expand"
	"github.com/coregx/relattice/lexer/calc"
	"github.com/coregx/relattice/relation"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/zyedidia/glob"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "RELATTICE_"

// DefaultFile is the pattern-set location searched under the XDG config
// directories.
const DefaultFile = "relattice/patterns.toml"

// Pattern is one entry of a pattern set. Exactly one of Expr and Glob is set.
type Pattern struct {
	Name string `koanf:"name" yaml:"name" toml:"name"`
	Expr string `koanf:"expr" yaml:"expr,omitempty" toml:"expr,omitempty"`
	Glob string `koanf:"glob" yaml:"glob,omitempty" toml:"glob,omitempty"`
}

// Expression returns the regular expression for p. A glob is translated to
// its anchored regular expression.
func (p Pattern) Expression() (string, error) {
	switch {
	case p.Expr != "" && p.Glob != "":
		return "", errors.Errorf("pattern %q: expr and glob are exclusive", p.Name)
	case p.Expr != "":
		return p.Expr, nil
	case p.Glob != "":
		g, err := glob.Compile(p.Glob)
		if err != nil {
			return "", errors.Wrapf(err, "pattern %q: can't compile glob %q", p.Name, p.Glob)
		}
		return g.String(), nil
	}
	return "", errors.Errorf("pattern %q: one of expr or glob is required", p.Name)
}

// Config is a loaded pattern set.
type Config struct {
	// Source is the file the set was read from, empty when none was found.
	Source string

	TestNames []string
	Intersect relattice.IntersectPolicy
	Strict    bool
	FoldCase  bool
	Limits    expand.Limits
	Patterns  []Pattern
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		TestNames: append([]string(nil), relation.DefaultOrder...),
		Intersect: relattice.IntersectLegacyDisjoint,
		FoldCase:  true,
		Limits:    expand.DefaultLimits(),
	}
}

// Find returns path if set, else the first DefaultFile found under the XDG
// config directories. It returns "" when there is nothing to load.
func Find(path string) string {
	if path != "" {
		return path
	}
	found, err := xdg.SearchConfigFile(DefaultFile)
	if err != nil {
		return ""
	}
	return found
}

// Load reads the pattern set at path (see Find) and applies environment
// overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	source := Find(path)
	if source != "" {
		parser, err := parserFor(source)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(source), parser); err != nil {
			return nil, errors.Wrapf(err, "failed to load pattern set from %s", source)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment overrides")
	}

	cfg, err := fromKoanf(k)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errors.Errorf("unsupported pattern set format %q", filepath.Ext(path))
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := Default()

	if k.Exists("lattice.tests") {
		cfg.TestNames = stringList(k.Get("lattice.tests"))
	}
	if k.Exists("lattice.intersect") {
		p, err := relattice.ParseIntersectPolicy(k.String("lattice.intersect"))
		if err != nil {
			return nil, errors.Wrap(err, "lattice.intersect")
		}
		cfg.Intersect = p
	}
	cfg.Strict = k.Bool("lattice.strict")
	if k.Exists("lattice.fold_case") {
		cfg.FoldCase = k.Bool("lattice.fold_case")
	}

	vars := calc.Env{
		"span":    int64(cfg.Limits.MaxSpan),
		"depth":   int64(cfg.Limits.MaxDepth),
		"results": int64(cfg.Limits.MaxResults),
	}
	for _, l := range []struct {
		key string
		dst *int
	}{
		{"expand.max_span", &cfg.Limits.MaxSpan},
		{"expand.max_depth", &cfg.Limits.MaxDepth},
		{"expand.max_results", &cfg.Limits.MaxResults},
	} {
		if !k.Exists(l.key) {
			continue
		}
		v, err := limit(k.Get(l.key), vars)
		if err != nil {
			return nil, errors.Wrap(err, l.key)
		}
		*l.dst = v
	}

	if k.Exists("patterns") {
		if err := k.Unmarshal("patterns", &cfg.Patterns); err != nil {
			return nil, errors.Wrap(err, "patterns")
		}
	}
	return cfg, nil
}

// limit converts a number or an integer expression over the default limits.
func limit(v any, vars calc.Env) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, nil
		}
		n, err := calc.Eval(v, vars)
		if err != nil {
			return 0, errors.Wrapf(err, "can't evaluate %q", v)
		}
		return int(n), nil
	}
	return 0, errors.Errorf("unsupported value %v (%T)", v, v)
}

// stringList accepts a list or a comma separated string, as environment
// overrides produce.
func stringList(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, fmt.Sprint(s))
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// LatticeConfig resolves the test names and limits into a library
// configuration logging to logger.
func (c *Config) LatticeConfig(logger zerolog.Logger) (relattice.Config, error) {
	cfg := relattice.DefaultConfig()
	tests, err := relation.ResolveOptions(c.TestNames, relation.Options{
		Limits:   c.Limits,
		FoldCase: c.FoldCase,
		Logger:   logger,
	})
	if err != nil {
		return cfg, errors.Wrap(err, "lattice.tests")
	}
	cfg.Tests = tests
	cfg.FoldCase = c.FoldCase
	cfg.IntersectPolicy = c.Intersect
	cfg.ExpandLimits = c.Limits
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Build creates a lattice and inserts every pattern in file order.
func (c *Config) Build(logger zerolog.Logger) (*relattice.Lattice, error) {
	lc, err := c.LatticeConfig(logger)
	if err != nil {
		return nil, err
	}
	l, err := relattice.NewWithConfig(lc)
	if err != nil {
		return nil, err
	}
	for _, p := range c.Patterns {
		expr, err := p.Expression()
		if err != nil {
			return nil, err
		}
		if _, err := l.Insert(expr); err != nil {
			return nil, errors.Wrapf(err, "pattern %q", p.Name)
		}
	}
	return l, nil
}

// Names maps each pattern's expression to its name. When names collide on
// one expression the first wins.
func (c *Config) Names() (map[string]string, error) {
	out := make(map[string]string, len(c.Patterns))
	for _, p := range c.Patterns {
		expr, err := p.Expression()
		if err != nil {
			return nil, err
		}
		if _, ok := out[expr]; !ok {
			out[expr] = p.Name
		}
	}
	return out, nil
}
