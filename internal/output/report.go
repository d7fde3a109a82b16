package output

import (
	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/manifest"
	"github.com/davetashner/modgraph/internal/snapshot"
)

// Report is what one command produced. Only the sections the command
// filled are rendered.
type Report struct {
	Command string `json:"command"`
	Root    string `json:"root"`

	// Graph is the graph to draw. Text output lists its adjacency only for
	// the graph command.
	Graph *graph.Graph `json:"graph,omitempty"`

	Cycles []graph.Cycle `json:"cycles,omitempty"`

	Metric    graph.Metric    `json:"metric,omitempty"`
	Threshold int             `json:"threshold,omitempty"`
	Hotspots  []graph.Hotspot `json:"hotspots,omitempty"`

	// ImpactOf names the seeds of Impact for display.
	ImpactOf []string         `json:"impact_of,omitempty"`
	Impact   *graph.ImpactSet `json:"impact,omitempty"`

	DeadExports []deadexport.DeadExport `json:"dead_exports,omitempty"`

	External map[string]int   `json:"external,omitempty"`
	Manifest *manifest.Report `json:"manifest,omitempty"`

	Move  *graph.MovePlan `json:"move,omitempty"`
	Drift *snapshot.Diff  `json:"drift,omitempty"`

	Diagnostics *graph.Diagnostics `json:"diagnostics,omitempty"`
}

// cycleEdges returns the set of "from\x00to" pairs that lie on a cycle.
// Cycles are closed: the last element repeats the first.
func (r *Report) cycleEdges() map[string]bool {
	on := make(map[string]bool)
	for _, c := range r.Cycles {
		for i := 0; i < len(c)-1; i++ {
			on[string(c[i])+"\x00"+string(c[i+1])] = true
		}
	}
	return on
}
