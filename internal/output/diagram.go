package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/modgraph/internal/graph"
)

// MermaidFormatter draws the report's graph as a Mermaid flowchart. Edges
// on a cycle are drawn thick and their modules are marked.
type MermaidFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MermaidFormatter)(nil)

// NewMermaidFormatter returns a MermaidFormatter.
func NewMermaidFormatter() *MermaidFormatter { return &MermaidFormatter{} }

// Name returns the format name.
func (f *MermaidFormatter) Name() string { return "mermaid" }

// Format writes the flowchart.
func (f *MermaidFormatter) Format(r *Report, w io.Writer) error {
	g := r.Graph
	if g == nil {
		return fmt.Errorf("mermaid: %w", ErrNoGraph)
	}
	onCycle := r.cycleEdges()
	ids := nodeIDs(g)

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %s[%q]\n", ids[n.ID], n.Path)
	}
	cyclic := make(map[graph.ModuleID]bool)
	for _, n := range g.Nodes {
		for _, to := range n.Out {
			arrow := "-->"
			if onCycle[string(n.ID)+"\x00"+string(to)] {
				arrow = "==>"
				cyclic[n.ID], cyclic[to] = true, true
			}
			fmt.Fprintf(&b, "  %s %s %s\n", ids[n.ID], arrow, ids[to])
		}
	}
	if len(cyclic) > 0 {
		b.WriteString("  classDef cycle stroke:#d33,stroke-width:2px\n")
		for _, n := range g.Nodes {
			if cyclic[n.ID] {
				fmt.Fprintf(&b, "  class %s cycle\n", ids[n.ID])
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write mermaid: %w", err)
	}
	return nil
}

// DOTFormatter draws the report's graph in Graphviz DOT. Edges on a cycle
// are red.
type DOTFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*DOTFormatter)(nil)

// NewDOTFormatter returns a DOTFormatter.
func NewDOTFormatter() *DOTFormatter { return &DOTFormatter{} }

// Name returns the format name.
func (f *DOTFormatter) Name() string { return "dot" }

// Format writes the digraph.
func (f *DOTFormatter) Format(r *Report, w io.Writer) error {
	g := r.Graph
	if g == nil {
		return fmt.Errorf("dot: %w", ErrNoGraph)
	}
	onCycle := r.cycleEdges()

	var b strings.Builder
	b.WriteString("digraph modules {\n  rankdir=LR;\n  node [shape=box];\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q;\n", n.Path)
	}
	for _, n := range g.Nodes {
		for _, to := range n.Out {
			attrs := ""
			if onCycle[string(n.ID)+"\x00"+string(to)] {
				attrs = " [color=red]"
			}
			fmt.Fprintf(&b, "  %q -> %q%s;\n", n.Path, g.Path(to), attrs)
		}
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// nodeIDs assigns short Mermaid-safe identifiers in node order.
func nodeIDs(g *graph.Graph) map[graph.ModuleID]string {
	ids := make(map[graph.ModuleID]string, g.Len())
	for i, n := range g.Nodes {
		ids[n.ID] = fmt.Sprintf("m%d", i)
	}
	return ids
}
