package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/coregx/relattice"
	"github.com/coregx/relattice/expand"
	"github.com/coregx/relattice/relation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "patterns.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "patterns.toml"), cfg.Source)
	assert.Equal(t, []string{"expand", "prefix", "suffix", "equal", "wildcard", "fixed", "class"}, cfg.TestNames)
	assert.Equal(t, relattice.IntersectRecord, cfg.Intersect)
	assert.True(t, cfg.Strict)
	assert.Equal(t, expand.Limits{MaxSpan: 32, MaxDepth: 16, MaxResults: 4096}, cfg.Limits)
	require.Len(t, cfg.Patterns, 4)
	assert.Equal(t, Pattern{Name: "digits", Expr: `\d+`}, cfg.Patterns[0])
	assert.Equal(t, Pattern{Name: "api", Glob: "/api/*"}, cfg.Patterns[3])
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "patterns.yaml"))
	require.NoError(t, err)

	assert.Equal(t, relation.DefaultOrder, cfg.TestNames)
	assert.Equal(t, relattice.IntersectLegacyDisjoint, cfg.Intersect)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 16, cfg.Limits.MaxSpan)
	assert.Equal(t, expand.DefaultLimits().MaxDepth, cfg.Limits.MaxDepth)
	assert.Equal(t, []Pattern{
		{Name: "users", Expr: "/api/users"},
		{Name: "api", Expr: "/api/.*"},
	}, cfg.Patterns)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("RELATTICE_LATTICE_STRICT", "false")
	t.Setenv("RELATTICE_LATTICE_TESTS", "prefix, class")
	t.Setenv("RELATTICE_EXPAND_MAX_SPAN", "8 * 2")

	cfg, err := Load(filepath.Join("testdata", "patterns.toml"))
	require.NoError(t, err)

	assert.False(t, cfg.Strict)
	assert.Equal(t, []string{"prefix", "class"}, cfg.TestNames)
	assert.Equal(t, 16, cfg.Limits.MaxSpan)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_limit.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expand.max_span")

	_, err = Load(filepath.Join("testdata", "patterns.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported pattern set format")

	_, err = Load(filepath.Join("testdata", "missing.toml"))
	require.Error(t, err)

	t.Setenv("RELATTICE_LATTICE_INTERSECT", "sometimes")
	_, err = Load(filepath.Join("testdata", "patterns.yaml"))
	var cerr *relattice.ConfigError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "IntersectPolicy", cerr.Field)
}

func TestFindSearchesXDGConfigHome(t *testing.T) {
	t.Cleanup(xdg.Reload)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "system"))
	xdg.Reload()

	assert.Equal(t, "", Find(""))
	assert.Equal(t, "explicit.toml", Find("explicit.toml"))

	want := filepath.Join(dir, "relattice", "patterns.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(want), 0o755))
	require.NoError(t, os.WriteFile(want, []byte("[[patterns]]\nname = \"x\"\nexpr = \"x+\"\n"), 0o644))

	assert.Equal(t, want, Find(""))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Source)
	assert.Equal(t, []Pattern{{Name: "x", Expr: "x+"}}, cfg.Patterns)
}

func TestPatternExpression(t *testing.T) {
	expr, err := Pattern{Name: "d", Expr: `\d+`}.Expression()
	require.NoError(t, err)
	assert.Equal(t, `\d+`, expr)

	expr, err = Pattern{Name: "api", Glob: "/api/*"}.Expression()
	require.NoError(t, err)
	assert.NotEqual(t, "/api/*", expr)

	_, err = Pattern{Name: "none"}.Expression()
	assert.Error(t, err)

	cfg, err := Load(filepath.Join("testdata", "bad_pattern.toml"))
	require.NoError(t, err)
	_, err = cfg.Build(zerolog.Nop())
	assert.ErrorContains(t, err, "exclusive")
}

func TestBuild(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "patterns.toml"))
	require.NoError(t, err)

	l, err := cfg.Build(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, relattice.IntersectRecord, l.Config().IntersectPolicy)

	got, err := l.MatchStrings("42", true)
	require.NoError(t, err)
	assert.Equal(t, []string{`\d+`}, got)

	names, err := cfg.Names()
	require.NoError(t, err)
	assert.Equal(t, "digits", names[`\d+`])

	api, err := cfg.Patterns[3].Expression()
	require.NoError(t, err)
	elems := l.Lookup(api)
	require.Len(t, elems, 1)
	assert.True(t, elems[0].MatchString("/api/users"))
	assert.False(t, elems[0].MatchString("/web/users"))
	assert.Equal(t, "api", names[api])
}

func TestLatticeConfigRejectsUnknownTest(t *testing.T) {
	cfg := Default()
	cfg.TestNames = []string{"prefix", "levenshtein"}
	_, err := cfg.LatticeConfig(zerolog.Nop())
	assert.ErrorContains(t, err, "lattice.tests")

	cfg.TestNames = nil
	_, err = cfg.LatticeConfig(zerolog.Nop())
	var cerr *relattice.ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestFoldCase(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "patterns.toml"))
	require.NoError(t, err)
	assert.True(t, cfg.FoldCase)

	t.Setenv("RELATTICE_LATTICE_FOLD_CASE", "false")
	cfg, err = Load(filepath.Join("testdata", "patterns.toml"))
	require.NoError(t, err)
	require.False(t, cfg.FoldCase)

	lc, err := cfg.LatticeConfig(zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, lc.FoldCase)

	cfg.Patterns = []Pattern{{Name: "lower", Expr: "abc.*"}, {Name: "upper", Expr: "ABC"}}
	l, err := cfg.Build(zerolog.Nop())
	require.NoError(t, err)
	got, err := l.MatchStrings("ABC", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC"}, got)
}
