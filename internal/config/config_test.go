package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, DefaultExtensions, r.Extensions)
	assert.Contains(t, r.ExcludeDirs, "node_modules")
	assert.Contains(t, r.ExcludeDirs, ".git")
	assert.NoError(t, r.Validate())
}

func TestDefaultRules_ReturnsCopy(t *testing.T) {
	r := DefaultRules()
	r.Extensions[0] = ".changed"
	assert.Equal(t, ".ts", DefaultExtensions[0])
}

func TestWithDefaults_KeepsExplicitEmptyList(t *testing.T) {
	r := Rules{Extensions: []string{}}.WithDefaults()
	assert.Empty(t, r.Extensions)
	assert.NotEmpty(t, r.ExcludeDirs)
}

func TestWithDefaults_KeepsUserValues(t *testing.T) {
	r := Rules{Extensions: []string{".js"}, ExcludeDirs: []string{"gen"}}.WithDefaults()
	assert.Equal(t, []string{".js"}, r.Extensions)
	assert.Equal(t, []string{"gen"}, r.ExcludeDirs)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 3, Rules{Workers: 3}.WorkerCount())
	assert.Equal(t, runtime.NumCPU(), Rules{}.WorkerCount())
}
