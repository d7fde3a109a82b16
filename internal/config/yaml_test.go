package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/modgraph/internal/testable"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, path, err := Load(nil, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `extensions: [".ts", ".js"]
exclude_dirs: [gen]
exclude_globs: ["**/*.stories.tsx"]
entry_points: ["src/index.ts"]
max_files: 500
workers: 4
syntax_aware: true
hotspot_threshold: 6
format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, path, err := Load(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)
	assert.Equal(t, []string{".ts", ".js"}, cfg.Extensions)
	assert.Equal(t, []string{"gen"}, cfg.ExcludeDirs)
	assert.Equal(t, []string{"**/*.stories.tsx"}, cfg.ExcludeGlobs)
	assert.Equal(t, []string{"src/index.ts"}, cfg.EntryPoints)
	assert.Equal(t, 500, cfg.MaxFiles)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.SyntaxAware)
	assert.Equal(t, 6, cfg.HotspotThreshold)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `extensions = [".mjs"]
max_depth = 3
hotspot_top = 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileNameTOML), []byte(content), 0o600))

	cfg, path, err := Load(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileNameTOML), path)
	assert.Equal(t, []string{".mjs"}, cfg.Extensions)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, 5, cfg.HotspotTop)
}

func TestLoad_YAMLTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("workers: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileNameTOML), []byte("workers = 2\n"), 0o600))

	cfg, _, err := Load(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("extensions: [unterminated\n"), 0o600))

	_, _, err := Load(nil, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse .modgraph.yaml")
}

func TestLoad_ReadError(t *testing.T) {
	fsys := &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, os.ErrPermission },
	}
	_, _, err := Load(fsys, t.TempDir())
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := &Config{
		Rules:      Rules{Extensions: []string{".ts"}, MaxDepth: 2},
		HotspotTop: 4,
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	assert.Contains(t, buf.String(), "extensions:")
	assert.Contains(t, buf.String(), "max_depth: 2")
	assert.NotContains(t, buf.String(), "workers")

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	loaded, err := LoadFile(nil, path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
