package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/manifest"
	"github.com/davetashner/modgraph/internal/snapshot"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
	colorDim    = color.New(color.Faint)
)

// TextFormatter renders reports as colored, aligned text for terminals.
// Color follows fatih/color's global switch, which the CLI turns off for
// --no-color and non-terminal output.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a TextFormatter.
func NewTextFormatter() *TextFormatter { return &TextFormatter{} }

// Name returns the format name.
func (f *TextFormatter) Name() string { return "text" }

// Format writes every filled section of r to w.
func (f *TextFormatter) Format(r *Report, w io.Writer) error {
	var sb strings.Builder
	tw := &textWriter{r: r, b: &sb}

	switch r.Command {
	case "graph":
		tw.graph()
	case "cycles":
		tw.cycles()
	case "hotspots":
		tw.hotspots()
	case "impact":
		tw.impact()
	case "dead-exports":
		tw.deadExports()
	case "deps":
		tw.deps()
	case "move":
		tw.move()
	case "snapshot":
		tw.drift()
	default:
		tw.graph()
		tw.cycles()
		tw.hotspots()
		tw.impact()
		tw.deadExports()
		tw.deps()
		tw.move()
		tw.drift()
	}
	tw.diagnostics()

	if tw.err != nil {
		return tw.err
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

type textWriter struct {
	r   *Report
	b   *strings.Builder
	n   int // sections written
	err error
}

func (t *textWriter) title(s string) {
	if t.n > 0 {
		t.b.WriteString("\n")
	}
	t.n++
	t.b.WriteString(colorBold.Sprint(s))
	t.b.WriteString("\n")
}

func (t *textWriter) table(tb *table) {
	if err := tb.render(t.b); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *textWriter) path(id graph.ModuleID) string {
	if t.r.Graph != nil {
		return t.r.Graph.Path(id)
	}
	return string(id)
}

func (t *textWriter) graph() {
	g := t.r.Graph
	if g == nil {
		return
	}
	t.title(fmt.Sprintf("Modules (%d, %d edges)", g.Len(), len(g.Edges)))
	for _, n := range g.Nodes {
		fmt.Fprintf(t.b, "  %s %s\n", n.Path, colorDim.Sprintf("(in %d, out %d)", n.FanIn(), n.FanOut()))
		for _, to := range n.Out {
			fmt.Fprintf(t.b, "    -> %s\n", g.Path(to))
		}
	}
}

func (t *textWriter) cycles() {
	if t.r.Cycles == nil {
		return
	}
	if len(t.r.Cycles) == 0 {
		t.title("Cycles")
		t.b.WriteString("  " + colorGreen.Sprint("no cycles") + "\n")
		return
	}
	t.title(fmt.Sprintf("Cycles (%d)", len(t.r.Cycles)))
	for i, c := range t.r.Cycles {
		parts := make([]string, len(c))
		for j, id := range c {
			parts[j] = t.path(id)
		}
		fmt.Fprintf(t.b, "  %s %s\n", colorRed.Sprintf("%d.", i+1), strings.Join(parts, " -> "))
	}
}

func (t *textWriter) hotspots() {
	if t.r.Hotspots == nil {
		return
	}
	heading := fmt.Sprintf("Hotspots by %s", t.r.Metric)
	if t.r.Threshold > 0 {
		heading += fmt.Sprintf(" (over %d)", t.r.Threshold)
	}
	t.title(heading)
	if len(t.r.Hotspots) == 0 {
		t.b.WriteString("  " + colorGreen.Sprint("none") + "\n")
		return
	}
	threshold := t.r.Threshold
	tb := newTable(
		column{header: "#", align: AlignRight},
		column{header: "Module"},
		column{header: string(t.r.Metric), align: AlignRight, color: func(v string) string {
			if n, err := strconv.Atoi(v); err == nil && threshold > 0 && n > threshold {
				return colorYellow.Sprint(v)
			}
			return v
		}},
	)
	for i, h := range t.r.Hotspots {
		tb.addRow(strconv.Itoa(i+1), h.Path, strconv.Itoa(h.Count))
	}
	t.table(tb)
}

func (t *textWriter) impact() {
	set := t.r.Impact
	if set == nil {
		return
	}
	t.title(fmt.Sprintf("Impact of %s (%d modules)", strings.Join(t.r.ImpactOf, ", "), len(set.Entries)))
	if len(set.Entries) == 0 {
		t.b.WriteString("  nothing depends on it\n")
		return
	}
	tb := newTable(column{header: "Distance", align: AlignRight}, column{header: "Module"})
	for _, e := range set.Entries {
		tb.addRow(strconv.Itoa(e.Distance), e.Path)
	}
	t.table(tb)
}

func colorConfidence(v string) string {
	switch deadexport.Confidence(v) {
	case deadexport.High:
		return colorRed.Sprint(v)
	case deadexport.Medium:
		return colorYellow.Sprint(v)
	}
	return v
}

func (t *textWriter) deadExports() {
	if t.r.DeadExports == nil {
		return
	}
	t.title(fmt.Sprintf("Dead exports (%d)", len(t.r.DeadExports)))
	if len(t.r.DeadExports) == 0 {
		t.b.WriteString("  " + colorGreen.Sprint("none") + "\n")
		return
	}
	tb := newTable(
		column{header: "Module"},
		column{header: "Symbol"},
		column{header: "Confidence", color: colorConfidence},
		column{header: "Reason"},
	)
	for _, d := range t.r.DeadExports {
		tb.addRow(fmt.Sprintf("%s:%d", d.Path, d.Line), d.Symbol, string(d.Confidence), d.Reason)
	}
	t.table(tb)
}

func (t *textWriter) deps() {
	if t.r.External != nil {
		t.title(fmt.Sprintf("External packages (%d)", len(t.r.External)))
		names := make([]string, 0, len(t.r.External))
		for name := range t.r.External {
			names = append(names, name)
		}
		sort.Strings(names)
		tb := newTable(column{header: "Package"}, column{header: "References", align: AlignRight})
		for _, name := range names {
			tb.addRow(name, strconv.Itoa(t.r.External[name]))
		}
		t.table(tb)
	}
	if m := t.r.Manifest; m != nil {
		t.packages("Declared but never imported", m.Unused, colorYellow)
		t.packages("Imported but not declared", m.Undeclared, colorRed)
		t.packages("Dev dependencies imported by modules", m.DevOnly, colorDim)
	}
}

func (t *textWriter) packages(title string, pkgs []manifest.Package, c *color.Color) {
	if len(pkgs) == 0 {
		return
	}
	t.title(fmt.Sprintf("%s (%d)", title, len(pkgs)))
	for _, p := range pkgs {
		line := p.Name
		if p.Section != "" {
			line += " " + colorDim.Sprintf("[%s]", p.Section)
		}
		fmt.Fprintf(t.b, "  %s %s\n", c.Sprint("*"), line)
	}
}

func (t *textWriter) move() {
	p := t.r.Move
	if p == nil {
		return
	}
	t.title(fmt.Sprintf("Move %s -> %s (%d rewrites)", t.path(p.From), t.path(p.To), len(p.Rewrites)))
	for _, rw := range p.Rewrites {
		fmt.Fprintf(t.b, "  %s:%d  %s -> %s\n", rw.Path, rw.Line,
			colorRed.Sprintf("%q", rw.Old), colorGreen.Sprintf("%q", rw.New))
	}
}

func (t *textWriter) drift() {
	if t.r.Drift == nil {
		return
	}
	if t.n > 0 {
		t.b.WriteString("\n")
	}
	t.n++
	if err := snapshot.FormatDiff(t.r.Drift, t.b); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *textWriter) diagnostics() {
	d := t.r.Diagnostics
	if d == nil || d.Clean() {
		return
	}
	t.title(colorYellow.Sprint("Warnings: " + d.Summary()))
	for _, fe := range d.FileErrors {
		fmt.Fprintf(t.b, "  %s\n", fe.Error())
	}
	for _, u := range d.Unresolved {
		fmt.Fprintf(t.b, "  %s\n", u.Error())
	}
	for _, u := range d.Unresolvable {
		fmt.Fprintf(t.b, "  %s:%d: dynamic load of %s\n", u.Path, u.Line, u.Expression)
	}
	for _, we := range d.WalkErrors {
		fmt.Fprintf(t.b, "  %s\n", we)
	}
	if d.Truncated {
		t.b.WriteString("  file limit reached; the graph is partial\n")
	}
}
