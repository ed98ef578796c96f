package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	global := &Global{Logger: slog.Default(), Out: &out}
	parser, err := kong.New(&cli, kong.Name("docrender"), kong.Vars{"version": "test"}, kong.Bind(global))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run(global, &cli)
	return out.String(), err
}

func project(t *testing.T) (cfgPath, out string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(src, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.md"), []byte("---\ntoc:\n  - files: [intro]\n---\n# Home\n\nSee [intro](doc:intro).\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "intro.md"), []byte("# Introduction\n"), 0o600))

	out = filepath.Join(dir, "site")
	cfgPath = filepath.Join(dir, "docrender.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("project:\n  name: Demo\nsets:\n  - name: guide\n    sources: ["+src+"]\noutput:\n  directory: "+out+"\n"), 0o600))
	return cfgPath, out
}

func TestRender_WritesSiteAndMetrics(t *testing.T) {
	cfgPath, out := project(t)
	metricsFile := filepath.Join(t.TempDir(), "docrender.prom")

	stdout, err := run(t, "--config", cfgPath, "render", "--check-links", "--metrics-file", metricsFile)
	require.NoError(t, err)
	require.Contains(t, stdout, "guide (guide): 2 written")
	require.Contains(t, stdout, "Render success")

	require.FileExists(t, filepath.Join(out, "guide", "index.html"))
	require.FileExists(t, filepath.Join(out, "guide", "intro.html"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `docrender_build_outcomes_total{outcome="success"} 1`)
}

func TestRender_OutputOverride(t *testing.T) {
	cfgPath, _ := project(t)
	out := filepath.Join(t.TempDir(), "elsewhere")

	_, err := run(t, "--config", cfgPath, "render", "--output", out)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(out, "guide", "index.html"))
}

func TestRender_MissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render")
	require.Error(t, err)
}

func TestToc_JSON(t *testing.T) {
	cfgPath, out := project(t)

	stdout, err := run(t, "--config", cfgPath, "toc", "--format", "json")
	require.NoError(t, err)

	var dump []tocDump
	require.NoError(t, json.Unmarshal([]byte(stdout), &dump))
	require.Len(t, dump, 1)
	require.Equal(t, "guide", dump[0].Set)
	require.Equal(t, "Home", dump[0].Name)
	require.Len(t, dump[0].Entries, 1)
	require.Equal(t, "Introduction", dump[0].Entries[0].Title)

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "toc must not render")
}

func TestToc_YAML(t *testing.T) {
	cfgPath, _ := project(t)
	stdout, err := run(t, "--config", cfgPath, "toc")
	require.NoError(t, err)
	require.Contains(t, stdout, "name: Home")
	require.Contains(t, stdout, "title: Introduction")
}

func TestInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docrender.yaml")

	stdout, err := run(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	require.Contains(t, stdout, "initialized successfully")

	_, err = run(t, "--config", cfgPath, "init")
	require.Error(t, err)

	_, err = run(t, "--config", cfgPath, "init", "--force")
	require.NoError(t, err)
}

func TestLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "warning")
	require.Equal(t, slog.LevelWarn, logLevel(false))
	require.Equal(t, slog.LevelDebug, logLevel(true))
}

func TestChangedTargets(t *testing.T) {
	prev := map[string]string{"a.html": "1", "b.html": "2"}
	require.Equal(t, 2, changedTargets(nil, prev))
	require.Equal(t, 0, changedTargets(prev, prev))
	require.Equal(t, 2, changedTargets(prev, map[string]string{"a.html": "1", "b.html": "3", "c.html": "4"}))
}

func TestWatchRoots(t *testing.T) {
	cfg := &config.Config{Sets: []config.SetConfig{
		{Name: "guide", Kind: config.SetKindGuide, Sources: []string{"docs", "docs/"}},
		{Name: "api", Kind: config.SetKindAPI, Sources: []string{"api"}},
	}}
	require.Equal(t, []string{"docs", "api"}, watchRoots(cfg, nil))
	require.Equal(t, []string{"other", "api"}, watchRoots(cfg, []string{"other"}))
}

func TestWithin(t *testing.T) {
	require.True(t, within("docs/site", "docs"))
	require.True(t, within("docs", "docs"))
	require.False(t, within("site", "docs"))
	require.True(t, within("..docs", "."))
}
