package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davetashner/modgraph/internal/extract"
)

const testRoot = "/r"

func id(name string) ModuleID { return ModuleID(testRoot + "/" + name + ".ts") }

// mkGraph builds a graph from "a->b" style edges over modules a.ts, b.ts...
func mkGraph(t *testing.T, nodes []string, edges ...string) *Graph {
	t.Helper()
	ids := make([]ModuleID, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, id(n))
	}
	var es []Edge
	for i, e := range edges {
		from, to, ok := strings.Cut(e, "->")
		require.True(t, ok, e)
		es = append(es, Edge{From: id(from), To: id(to), Specifier: "./" + to, Kind: extract.Static, Line: i + 1})
	}
	return New(testRoot, ids, es)
}

// writeFiles creates a source tree and returns its root.
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

func cyclePaths(g *Graph, cycles []Cycle) [][]string {
	out := make([][]string, len(cycles))
	for i, c := range cycles {
		for _, m := range c {
			out[i] = append(out[i], g.Path(m))
		}
	}
	return out
}
