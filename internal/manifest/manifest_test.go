package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkgJSON = `{
  "name": "@acme/web",
  "dependencies": {"react": "^18.0.0", "lodash": "^4.17.21", "@types/react": "^18.0.0"},
  "devDependencies": {"vitest": "^1.0.0", "typescript": "^5.0.0"},
  "optionalDependencies": {"fsevents": "^2.3.0"}
}`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(pkgJSON))
	require.NoError(t, err)
	assert.Equal(t, "@acme/web", m.Name)
	assert.Len(t, m.Declared[Dependencies], 3)
	assert.Len(t, m.Declared[DevDependencies], 2)
	assert.NotContains(t, m.Declared, PeerDependencies)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.ErrorContains(t, err, "parse package.json")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(nil, dir)
	assert.ErrorIs(t, err, ErrNoManifest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(pkgJSON), 0o600))
	m, err := Load(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, "@acme/web", m.Name)
}

func TestCheck(t *testing.T) {
	m, err := Parse([]byte(pkgJSON))
	require.NoError(t, err)

	r := Check(m, map[string]int{
		"react":     4,
		"vitest":    2,
		"axios":     1,
		"fs":        3,
		"node:path": 1,
		"@acme/web": 1,
	})
	assert.Equal(t, []Package{
		{Name: "fsevents", Section: OptionalDependencies},
		{Name: "lodash", Section: Dependencies},
	}, r.Unused)
	assert.Equal(t, []Package{{Name: "axios", References: 1}}, r.Undeclared)
	assert.Equal(t, []Package{{Name: "vitest", Section: DevDependencies, References: 2}}, r.DevOnly)
	assert.False(t, r.Clean())
}

func TestCheck_Clean(t *testing.T) {
	m, err := Parse([]byte(`{"dependencies": {"left-pad": "1"}, "devDependencies": {"eslint": "8"}}`))
	require.NoError(t, err)
	r := Check(m, map[string]int{"left-pad": 1})
	assert.True(t, r.Clean())
	assert.Empty(t, r.DevOnly)
}

func TestCheck_InternalPackages(t *testing.T) {
	m, err := Parse([]byte(`{"name": "root", "dependencies": {"react": "18"}}`))
	require.NoError(t, err)
	m.Internal = []string{"@acme/ui", "@acme/utils"}

	r := Check(m, map[string]int{"react": 1, "@acme/ui": 4, "root": 1})
	assert.True(t, r.Clean())
	assert.Empty(t, r.Undeclared)
}

func TestTypesOnly(t *testing.T) {
	ext := map[string]int{"react": 1, "@babel/core": 1}
	assert.True(t, typesOnly("@types/react", ext))
	assert.True(t, typesOnly("@types/babel__core", ext))
	assert.False(t, typesOnly("@types/node", ext))
	assert.False(t, typesOnly("react", ext))
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"fs", "node:fs", "path", "worker_threads", "node:test"} {
		assert.True(t, IsBuiltin(name), name)
	}
	for _, name := range []string{"react", "fs-extra", "@types/node"} {
		assert.False(t, IsBuiltin(name), name)
	}
}
