package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_CLIOverridesFile(t *testing.T) {
	fileCfg := &Config{
		Rules:  Rules{Extensions: []string{".js"}, Workers: 2, MaxDepth: 4},
		Format: "json",
	}
	cli := Config{
		Rules:  Rules{Extensions: []string{".ts"}, Workers: 8},
		Format: "text",
	}

	result := Merge(fileCfg, cli)
	assert.Equal(t, []string{".ts"}, result.Extensions)
	assert.Equal(t, 8, result.Workers)
	assert.Equal(t, 4, result.MaxDepth)
	assert.Equal(t, "text", result.Format)
}

func TestMerge_FileFillsInDefaults(t *testing.T) {
	fileCfg := &Config{
		Rules: Rules{
			ExcludeDirs: []string{"gen"},
			FocusModule: "src/app.ts",
			EntryPoints: []string{"src/main.ts"},
			MaxFiles:    100,
			SyntaxAware: true,
		},
		HotspotThreshold: 3,
		HotspotTop:       7,
	}

	result := Merge(fileCfg, Config{})
	assert.Equal(t, []string{"gen"}, result.ExcludeDirs)
	assert.Equal(t, "src/app.ts", result.FocusModule)
	assert.Equal(t, []string{"src/main.ts"}, result.EntryPoints)
	assert.Equal(t, 100, result.MaxFiles)
	assert.True(t, result.SyntaxAware)
	assert.Equal(t, 3, result.HotspotThreshold)
	assert.Equal(t, 7, result.HotspotTop)
}

func TestMerge_ExcludeGlobsAccumulate(t *testing.T) {
	fileCfg := &Config{Rules: Rules{ExcludeGlobs: []string{"**/*.gen.ts"}}}
	cli := Config{Rules: Rules{ExcludeGlobs: []string{"legacy/**"}}}

	result := Merge(fileCfg, cli)
	assert.Equal(t, []string{"**/*.gen.ts", "legacy/**"}, result.ExcludeGlobs)
}

func TestMerge_NilFileConfig(t *testing.T) {
	cli := Config{Format: "dot"}
	assert.Equal(t, cli, Merge(nil, cli))
}

func TestFinalize(t *testing.T) {
	cfg := Finalize(Config{})
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
	assert.Equal(t, DefaultHotspotThreshold, cfg.HotspotThreshold)
	assert.Equal(t, DefaultHotspotTop, cfg.HotspotTop)

	cfg = Finalize(Config{HotspotTop: 2})
	assert.Equal(t, 2, cfg.HotspotTop)
}
