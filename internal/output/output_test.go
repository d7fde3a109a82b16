package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/extract"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/manifest"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func id(name string) graph.ModuleID { return graph.ModuleID("/r/" + name + ".ts") }

// sample is a -> b -> a plus c -> b.
func sample() *graph.Graph {
	edge := func(from, to string, line int) graph.Edge {
		return graph.Edge{From: id(from), To: id(to), Specifier: "./" + to, Kind: extract.Static, Line: line}
	}
	return graph.New("/r", nil, []graph.Edge{edge("a", "b", 1), edge("b", "a", 1), edge("c", "b", 2)})
}

func render(t *testing.T, f Formatter, r *Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Format(r, &buf))
	return buf.String()
}

// fieldsOf returns the whitespace-separated fields of every output line.
func fieldsOf(out string) [][]string {
	var rows [][]string
	for _, l := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		rows = append(rows, strings.Fields(l))
	}
	return rows
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"dot", "json", "mermaid", "text"}, Names())
	for _, name := range Names() {
		f, err := GetFormatter(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}
	_, err := GetFormatter("yaml")
	assert.ErrorContains(t, err, `unknown format: "yaml" (available: dot, json, mermaid, text)`)
}

func TestText_Cycles(t *testing.T) {
	g := sample()
	out := render(t, NewTextFormatter(), &Report{Command: "cycles", Graph: g, Cycles: g.Cycles(graph.CycleOptions{})})
	assert.Equal(t, "Cycles (1)\n  1. a.ts -> b.ts -> a.ts\n", out)

	out = render(t, NewTextFormatter(), &Report{Command: "cycles", Cycles: []graph.Cycle{}})
	assert.Equal(t, "Cycles\n  no cycles\n", out)
}

func TestText_Hotspots(t *testing.T) {
	g := sample()
	out := render(t, NewTextFormatter(), &Report{
		Command:   "hotspots",
		Graph:     g,
		Metric:    graph.FanIn,
		Threshold: 1,
		Hotspots:  g.OverThreshold(graph.FanIn, 1),
	})
	assert.Equal(t, [][]string{
		{"Hotspots", "by", "fan-in", "(over", "1)"},
		{"#", "Module", "fan-in"},
		{"-", "------", "------"},
		{"1", "b.ts", "2"},
	}, fieldsOf(out))
}

func TestText_Impact(t *testing.T) {
	g := sample()
	set, err := g.Impact(id("a"), graph.ImpactOptions{})
	require.NoError(t, err)
	out := render(t, NewTextFormatter(), &Report{Command: "impact", Graph: g, ImpactOf: []string{"a.ts"}, Impact: set})
	assert.Equal(t, [][]string{
		{"Impact", "of", "a.ts", "(2", "modules)"},
		{"Distance", "Module"},
		{"--------", "------"},
		{"1", "b.ts"},
		{"2", "c.ts"},
	}, fieldsOf(out))
}

func TestText_DeadExportsAndDiagnostics(t *testing.T) {
	r := &Report{
		Command: "dead-exports",
		DeadExports: []deadexport.DeadExport{
			{Path: "src/util.ts", Symbol: "helper", Line: 3, Confidence: deadexport.High, Reason: "unused"},
		},
		Diagnostics: &graph.Diagnostics{Unresolved: []graph.UnresolvedRef{{Path: "src/a.ts", Specifier: "./gone", Line: 2}}},
	}
	out := render(t, NewTextFormatter(), r)
	assert.Contains(t, out, "Dead exports (1)\n")
	assert.Contains(t, out, "src/util.ts:3")
	assert.Contains(t, out, "helper")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "\nWarnings: 1 unresolved references\n")
	assert.Contains(t, out, `src/a.ts:2: cannot resolve "./gone"`)
}

func TestText_CleanDiagnosticsAreSilent(t *testing.T) {
	out := render(t, NewTextFormatter(), &Report{Command: "dead-exports", DeadExports: []deadexport.DeadExport{}, Diagnostics: &graph.Diagnostics{}})
	assert.Equal(t, "Dead exports (0)\n  none\n", out)
}

func TestText_Deps(t *testing.T) {
	out := render(t, NewTextFormatter(), &Report{
		Command:  "deps",
		External: map[string]int{"react": 3, "lodash": 1},
		Manifest: &manifest.Report{
			Unused:     []manifest.Package{{Name: "left-pad", Section: manifest.Dependencies}},
			Undeclared: []manifest.Package{{Name: "axios", References: 1}},
		},
	})
	rows := fieldsOf(out)
	assert.Equal(t, []string{"lodash", "1"}, rows[3])
	assert.Equal(t, []string{"react", "3"}, rows[4])
	assert.Contains(t, out, "Declared but never imported (1)\n  * left-pad [dependencies]\n")
	assert.Contains(t, out, "Imported but not declared (1)\n  * axios\n")
	assert.NotContains(t, out, "Dev dependencies")
}

func TestText_Graph(t *testing.T) {
	out := render(t, NewTextFormatter(), &Report{Command: "graph", Graph: sample()})
	assert.Equal(t, "Modules (3, 3 edges)\n"+
		"  a.ts (in 1, out 1)\n    -> b.ts\n"+
		"  b.ts (in 2, out 1)\n    -> a.ts\n"+
		"  c.ts (in 0, out 1)\n    -> b.ts\n", out)
}

func TestText_Move(t *testing.T) {
	g := sample()
	plan, err := g.MovePlan(id("b"), "lib/b.ts")
	require.NoError(t, err)
	out := render(t, NewTextFormatter(), &Report{Command: "move", Graph: g, Move: plan})
	assert.Contains(t, out, "Move b.ts -> lib/b.ts (")
	assert.Contains(t, out, `a.ts:1  "./b" -> "./lib/b"`)
}

func TestJSON(t *testing.T) {
	g := sample()
	f := &JSONFormatter{nowFunc: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }}
	out := render(t, f, &Report{Command: "cycles", Root: "/r", Cycles: g.Cycles(graph.CycleOptions{}), Diagnostics: &graph.Diagnostics{}})

	var got struct {
		Command  string     `json:"command"`
		Root     string     `json:"root"`
		Cycles   [][]string `json:"cycles"`
		Metadata struct {
			GeneratedAt string `json:"generated_at"`
			Clean       bool   `json:"clean"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "cycles", got.Command)
	assert.Equal(t, "/r", got.Root)
	assert.Equal(t, [][]string{{"/r/a.ts", "/r/b.ts", "/r/a.ts"}}, got.Cycles)
	assert.Equal(t, "2026-01-02T03:04:05Z", got.Metadata.GeneratedAt)
	assert.True(t, got.Metadata.Clean)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "\n  \"command\"")
}

func TestJSON_GraphOnlyForGraphCommand(t *testing.T) {
	g := sample()
	f := &JSONFormatter{Compact: true}

	out := render(t, f, &Report{Command: "cycles", Graph: g, Cycles: g.Cycles(graph.CycleOptions{})})
	assert.NotContains(t, out, `"graph"`)

	out = render(t, f, &Report{Command: "graph", Graph: g})
	assert.Contains(t, out, `"graph":{"root":"/r"`)
}

func TestJSON_Compact(t *testing.T) {
	out := render(t, &JSONFormatter{Compact: true}, &Report{Command: "cycles"})
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestMermaid(t *testing.T) {
	g := sample()
	out := render(t, NewMermaidFormatter(), &Report{Graph: g, Cycles: g.Cycles(graph.CycleOptions{})})
	assert.Equal(t, "flowchart LR\n"+
		"  m0[\"a.ts\"]\n  m1[\"b.ts\"]\n  m2[\"c.ts\"]\n"+
		"  m0 ==> m1\n  m1 ==> m0\n  m2 --> m1\n"+
		"  classDef cycle stroke:#d33,stroke-width:2px\n"+
		"  class m0 cycle\n  class m1 cycle\n", out)
}

func TestDOT(t *testing.T) {
	g := sample()
	out := render(t, NewDOTFormatter(), &Report{Graph: g, Cycles: g.Cycles(graph.CycleOptions{})})
	assert.Equal(t, "digraph modules {\n  rankdir=LR;\n  node [shape=box];\n"+
		"  \"a.ts\";\n  \"b.ts\";\n  \"c.ts\";\n"+
		"  \"a.ts\" -> \"b.ts\" [color=red];\n"+
		"  \"b.ts\" -> \"a.ts\" [color=red];\n"+
		"  \"c.ts\" -> \"b.ts\";\n}\n", out)
}

func TestDiagrams_NeedGraph(t *testing.T) {
	for _, f := range []Formatter{NewMermaidFormatter(), NewDOTFormatter()} {
		err := f.Format(&Report{Command: "cycles"}, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoGraph, f.Name())
	}
}

func TestCycleEdges_ClosedCycles(t *testing.T) {
	r := &Report{Cycles: []graph.Cycle{{"a", "b", "a"}, {"c", "c"}}}
	assert.Equal(t, map[string]bool{
		"a\x00b": true,
		"b\x00a": true,
		"c\x00c": true,
	}, r.cycleEdges())
}
