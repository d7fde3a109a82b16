package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "module dependency graph")
	for _, sub := range []string{"cycles", "hotspots", "impact", "dead-exports", "graph", "deps", "move", "snapshot", "watch", "config", "mcp", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "log-json", "config", "ext", "exclude-dir", "exclude", "workers", "max-files", "strict", "format", "fail-on"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "global flag --%s not registered", name)
		})
	}

	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	require.NotNil(t, v)
	assert.Equal(t, "verbose", v.Name)
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	require.NotNil(t, q)
	assert.Equal(t, "quiet", q.Name)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "modgraph dev\n", out)
}

func TestFailOn_Unknown(t *testing.T) {
	_, err := run(t, "cycles", t.TempDir(), "--fail-on", "typos")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), `unknown --fail-on check "typos"`)
}

func TestFormat_Unknown(t *testing.T) {
	_, err := run(t, "cycles", writeTree(t), "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), `unknown format: "xml"`)
}

func TestCLIConfig_Extensions(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	extensions = []string{"ts", ".js", " jsx "}
	workers = 3

	cfg := cliConfig()
	assert.Equal(t, []string{".ts", ".js", ".jsx"}, cfg.Extensions)
	assert.Equal(t, 3, cfg.Workers)
	assert.Nil(t, cfg.ExcludeDirs)
}

func TestExitError_DefaultMessages(t *testing.T) {
	assert.Equal(t, "modgraph: check failed", exitError(ExitFindings, "").Error())
	assert.True(t, strings.HasPrefix(exitError(ExitPartialFailure, "").Error(), "modgraph: some files"))
	assert.Equal(t, "modgraph: error", exitError(ExitInvalidArgs, "").Error())
	assert.Equal(t, 2, exitError(ExitFindings, "x").ExitCode())
}
