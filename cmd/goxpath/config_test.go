package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadConfigWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, DefaultConfigFile, "output: json\ntrim_whitespace: true\n")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.TrimWhitespace)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their defaults")
}

func TestLoadConfigExplicit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
html: true
extensions: [string, numeric]
log_level: debug
max_depth: 50
variables:
  min: 5
  ratio: 1.5
  name: Emma
  strict: true
  empty: null
  list: [a, b]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.HTML)
	assert.Equal(t, []string{"string", "numeric"}, cfg.Extensions)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 50, cfg.MaxDepth)

	assert.Equal(t, map[string]types.Value{
		"min":    types.Number(5),
		"ratio":  types.Number(1.5),
		"name":   types.String("Emma"),
		"strict": types.Boolean(true),
		"empty":  types.String(""),
		"list":   types.String("- a\n- b"),
	}, cfg.Bindings())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "output: [", "parse config"},
		{"bad output", "output: xml", `output must be text or json, got "xml"`},
		{"bad level", "log_level: loud", `unknown log level "loud"`},
		{"negative depth", "max_depth: -1", "max_depth must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yaml", tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := parseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}
