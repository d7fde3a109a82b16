package deadexport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/testable"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func run(t *testing.T, a *Analyzer, files map[string]string) []DeadExport {
	t.Helper()
	root := writeFiles(t, files)
	rules := config.DefaultRules()
	res, err := graph.Build(context.Background(), root, rules, graph.Options{})
	require.NoError(t, err)
	dead, err := a.Run(context.Background(), res, rules, graph.Options{})
	require.NoError(t, err)
	return dead
}

type finding struct {
	path, symbol string
	conf         Confidence
}

func summarize(dead []DeadExport) []finding {
	out := make([]finding, len(dead))
	for i, d := range dead {
		out[i] = finding{d.Path, d.Symbol, d.Confidence}
	}
	return out
}

func TestFind_HelperNeverMentioned(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/util.ts": "export function helper() { return 1; }\nhelper();\n",
		"src/app.ts":  "import './util';\nconsole.log('hi');\n",
	})
	require.Len(t, dead, 1)
	d := dead[0]
	assert.Equal(t, "src/util.ts", d.Path)
	assert.Equal(t, "helper", d.Symbol)
	assert.Equal(t, High, d.Confidence)
	assert.Equal(t, 1, d.Line)
	assert.Contains(t, d.Reason, "no other module mentions helper")
}

func TestFind_UsedElsewhereIsAlive(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/util.ts":  "export const helper = 1;\nexport const helperX = 2;\n",
		"src/other.ts": "import { helper } from './util';\nconsole.log(helper);\n",
	})
	assert.Equal(t, []finding{{"src/util.ts", "helperX", High}}, summarize(dead))
}

func TestFind_EntryAndTestFilesAreMedium(t *testing.T) {
	dead := run(t, &Analyzer{EntryPatterns: []string{"scripts/**"}}, map[string]string{
		"src/index.ts":        "export const boot = 1;\n",
		"src/util.test.ts":    "export const fixture = 1;\n",
		"scripts/release.ts":  "export const release = 1;\n",
		"src/lib/internal.ts": "export const hidden = 1;\n",
	})
	assert.Equal(t, []finding{
		{"scripts/release.ts", "release", Medium},
		{"src/index.ts", "boot", Medium},
		{"src/lib/internal.ts", "hidden", High},
		{"src/util.test.ts", "fixture", Medium},
	}, summarize(dead))
}

func TestFind_BarrelOnlyIsMedium(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/lib/util.ts":   "export const helper = 1;\n",
		"src/lib/barrel.ts": "export { helper } from './util';\n",
	})
	assert.Equal(t, []finding{
		{"src/lib/barrel.ts", "helper", High},
		{"src/lib/util.ts", "helper", Medium},
	}, summarize(dead))
	for _, d := range dead {
		if d.Path == "src/lib/util.ts" {
			assert.Contains(t, d.Reason, "src/lib/barrel.ts")
		}
	}
}

func TestFind_BarrelConsumerKeepsSymbolAlive(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/lib/util.ts":   "export const helper = 1;\n",
		"src/lib/barrel.ts": "export { helper } from './util';\n",
		"src/app.ts":        "import { helper } from './lib/barrel';\nhelper;\n",
	})
	assert.Empty(t, dead)
}

func TestFind_DefaultExportUsedByImporter(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/widget.ts": "export default function render() {}\n",
		"src/page.ts":   "import w from './widget';\nw();\n",
		"src/orphan.ts": "export default { a: 1 };\n",
	})
	assert.Equal(t, []finding{{"src/orphan.ts", "default", High}}, summarize(dead))
}

func TestFind_StarReExportsSkipped(t *testing.T) {
	dead := run(t, &Analyzer{}, map[string]string{
		"src/lib/all.ts":  "export * from './util';\n",
		"src/lib/util.ts": "export const shared = 1;\n",
		"src/app.ts":      "import { shared } from './lib/all';\nshared;\n",
	})
	assert.Empty(t, dead)
}

func TestFind_CommentMentionCountsByDefault(t *testing.T) {
	files := map[string]string{
		"src/util.ts": "export const helper = 1;\n",
		"src/app.ts":  "// call helper here\nconst s = 'helper';\n",
	}
	assert.Empty(t, run(t, &Analyzer{}, files))

	dead := run(t, &Analyzer{SyntaxAware: true}, files)
	assert.Equal(t, []finding{{"src/util.ts", "helper", High}}, summarize(dead))
}

func TestFind_ContextCancelled(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.ts": "export const a = 1;\n"})
	res, err := graph.Build(context.Background(), root, config.DefaultRules(), graph.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Analyzer{}).Run(ctx, res, config.DefaultRules(), graph.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_PatternCache(t *testing.T) {
	a := &Analyzer{}
	re1 := a.pattern("helper")
	re2 := a.pattern("helper")
	assert.Same(t, re1, re2)
	assert.True(t, re1.MatchString("x = helper;"))
	assert.True(t, re1.MatchString("helper"))
	assert.False(t, re1.MatchString("helpers"))
	assert.False(t, re1.MatchString("$helper"))
	assert.Equal(t, 1, a.cache.Len())
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, IsTestFile("src/a.test.ts"))
	assert.True(t, IsTestFile("src/a.spec.tsx"))
	assert.True(t, IsTestFile("src/__tests__/a.ts"))
	assert.True(t, IsTestFile("test/helpers.js"))
	assert.False(t, IsTestFile("src/testing.ts"))
	assert.False(t, IsTestFile("src/contest/a.ts"))
}

func TestIsEntry(t *testing.T) {
	a := &Analyzer{}
	assert.NotEmpty(t, a.isEntry("index.ts"))
	assert.NotEmpty(t, a.isEntry("src/main.tsx"))
	assert.NotEmpty(t, a.isEntry("bin/tool.js"))
	assert.NotEmpty(t, a.isEntry("vite.config.ts"))
	assert.Empty(t, a.isEntry("src/lib/index.ts"))
	assert.Empty(t, a.isEntry("src/util.ts"))
}

// flakyFS fails the first failures reads of files whose path ends in
// suffix, then reads normally.
func flakyFS(suffix string, failures int) (*testable.MockFileSystem, func() int) {
	var mu sync.Mutex
	calls := 0
	fsys := &testable.MockFileSystem{
		ReadFileFn: func(name string) ([]byte, error) {
			if strings.HasSuffix(filepath.ToSlash(name), suffix) {
				mu.Lock()
				calls++
				n := calls
				mu.Unlock()
				if n <= failures {
					return nil, errors.New("i/o timeout")
				}
			}
			return os.ReadFile(name) //nolint:gosec // test fixture path
		},
	}
	return fsys, func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
}

var consumerTree = map[string]string{
	"src/util.ts":     "export function helper() { return 1; }\n",
	"src/consumer.ts": "import { helper } from './util';\nhelper();\n",
}

func TestCollect_RetriesTransientReadFailure(t *testing.T) {
	root := writeFiles(t, consumerTree)
	rules := config.DefaultRules()
	res, err := graph.Build(context.Background(), root, rules, graph.Options{})
	require.NoError(t, err)

	fsys, calls := flakyFS("src/consumer.ts", 1)
	opts := graph.Options{FS: fsys, RetryDelay: time.Millisecond}
	in, err := Collect(context.Background(), res, rules, opts)
	require.NoError(t, err)
	assert.Empty(t, in.Errors)
	assert.Equal(t, 2, calls())

	dead, err := (&Analyzer{}).Find(context.Background(), res.Graph, in.Exports, in.Texts)
	require.NoError(t, err)
	assert.Empty(t, dead, "helper is used by consumer.ts")
}

func TestCollect_ExhaustedRetriesAreReported(t *testing.T) {
	root := writeFiles(t, consumerTree)
	rules := config.DefaultRules()
	res, err := graph.Build(context.Background(), root, rules, graph.Options{})
	require.NoError(t, err)
	require.True(t, res.Diagnostics.Clean())

	fsys, calls := flakyFS("src/consumer.ts", 100)
	opts := graph.Options{FS: fsys, ReadAttempts: 3, RetryDelay: time.Millisecond}
	in, err := Collect(context.Background(), res, rules, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, calls())
	require.Len(t, in.Errors, 1)
	assert.Equal(t, "src/consumer.ts", in.Errors[0].Path)
	assert.Equal(t, "read", in.Errors[0].Op)
	assert.ErrorContains(t, in.Errors[0], "i/o timeout")

	dead, err := (&Analyzer{}).Find(context.Background(), res.Graph, in.Exports, in.Texts)
	require.NoError(t, err)
	assert.Equal(t, []finding{{"src/util.ts", "helper", Medium}}, summarize(dead))
	assert.Contains(t, dead[0].Reason, "1 unreadable files were not searched")
}

func TestFind_MissingTextDowngradesToMedium(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/util.ts":  "export const helper = 1;\n",
		"src/other.ts": "export const other = 2;\n",
	})
	rules := config.DefaultRules()
	res, err := graph.Build(context.Background(), root, rules, graph.Options{})
	require.NoError(t, err)
	in, err := Collect(context.Background(), res, rules, graph.Options{})
	require.NoError(t, err)

	dead, err := (&Analyzer{}).Find(context.Background(), res.Graph, in.Exports, in.Texts)
	require.NoError(t, err)
	assert.Equal(t, []finding{
		{"src/other.ts", "other", High},
		{"src/util.ts", "helper", High},
	}, summarize(dead))

	other, err := res.Graph.Lookup("src/other.ts")
	require.NoError(t, err)
	delete(in.Texts, other)
	dead, err = (&Analyzer{}).Find(context.Background(), res.Graph, in.Exports, in.Texts)
	require.NoError(t, err)
	assert.Equal(t, []finding{{"src/util.ts", "helper", Medium}}, summarize(dead),
		"a module without text is not reported and cannot vouch for others")
}
