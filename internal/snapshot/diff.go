package snapshot

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Diff is the drift between two snapshots.
type Diff struct {
	AddedModules   []string   `json:"added_modules"`
	RemovedModules []string   `json:"removed_modules"`
	AddedEdges     []Edge     `json:"added_edges"`
	RemovedEdges   []Edge     `json:"removed_edges"`
	NewCycles      [][]string `json:"new_cycles"`
	ResolvedCycles [][]string `json:"resolved_cycles"`
}

// Empty reports whether nothing changed.
func (d *Diff) Empty() bool {
	return len(d.AddedModules) == 0 && len(d.RemovedModules) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0 &&
		len(d.NewCycles) == 0 && len(d.ResolvedCycles) == 0
}

// edgeKey identifies an edge across snapshots. Line is ignored so that
// edits above an import do not register as drift.
func edgeKey(e Edge) string {
	return e.From + "\x00" + e.To + "\x00" + e.Specifier
}

func cycleKey(c []string) string {
	return strings.Join(c, "\x00")
}

// ComputeDiff compares a previous snapshot with the current one. A nil prev
// is treated as empty, so everything in current is added.
func ComputeDiff(prev, current *Snapshot) *Diff {
	if prev == nil {
		prev = &Snapshot{}
	}
	d := &Diff{}
	d.AddedModules, d.RemovedModules = diffKeys(prev.Modules, current.Modules, func(s string) string { return s })
	d.AddedEdges, d.RemovedEdges = diffKeys(prev.Edges, current.Edges, edgeKey)
	d.NewCycles, d.ResolvedCycles = diffKeys(prev.Cycles, current.Cycles, cycleKey)

	sort.Strings(d.AddedModules)
	sort.Strings(d.RemovedModules)
	sortEdges(d.AddedEdges)
	sortEdges(d.RemovedEdges)
	return d
}

// diffKeys returns the items of cur missing from prev and of prev missing
// from cur, each in input order.
func diffKeys[T any](prev, cur []T, key func(T) string) (added, removed []T) {
	inPrev := make(map[string]bool, len(prev))
	for _, p := range prev {
		inPrev[key(p)] = true
	}
	inCur := make(map[string]bool, len(cur))
	for _, c := range cur {
		inCur[key(c)] = true
	}
	added, removed = []T{}, []T{}
	for _, c := range cur {
		if !inPrev[key(c)] {
			added = append(added, c)
		}
	}
	for _, p := range prev {
		if !inCur[key(p)] {
			removed = append(removed, p)
		}
	}
	return added, removed
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].From != es[j].From {
			return es[i].From < es[j].From
		}
		if es[i].To != es[j].To {
			return es[i].To < es[j].To
		}
		return es[i].Specifier < es[j].Specifier
	})
}

// FormatDiff writes a human-readable diff summary to w using +/- notation.
func FormatDiff(d *Diff, w io.Writer) error {
	if d.Empty() {
		_, err := fmt.Fprintln(w, "Graph drift: no changes")
		return err
	}

	var b strings.Builder
	b.WriteString("Graph drift:\n")
	count := func(n int, sign, what string) {
		if n > 0 {
			fmt.Fprintf(&b, "  %s %d %s\n", sign, n, what)
		}
	}
	count(len(d.AddedModules), "+", "module(s)")
	count(len(d.RemovedModules), "-", "module(s)")
	count(len(d.AddedEdges), "+", "edge(s)")
	count(len(d.RemovedEdges), "-", "edge(s)")
	count(len(d.NewCycles), "+", "cycle(s)")
	count(len(d.ResolvedCycles), "-", "cycle(s)")

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	section("Added modules", prefixed("+ ", d.AddedModules))
	section("Removed modules", prefixed("- ", d.RemovedModules))
	section("Added edges", edgeLines("+ ", d.AddedEdges))
	section("Removed edges", edgeLines("- ", d.RemovedEdges))
	section("New cycles", cycleLines("+ ", d.NewCycles))
	section("Resolved cycles", cycleLines("- ", d.ResolvedCycles))

	_, err := io.WriteString(w, b.String())
	return err
}

func prefixed(p string, items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = p + s
	}
	return out
}

func edgeLines(p string, es []Edge) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = fmt.Sprintf("%s%s -> %s (%q)", p, e.From, e.To, e.Specifier)
	}
	return out
}

func cycleLines(p string, cs [][]string) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = p + strings.Join(c, " -> ")
	}
	return out
}
