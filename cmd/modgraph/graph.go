package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
)

var graphFocus string

// graphCmd prints the module graph.
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Print the module dependency graph",
	Long: `Print every module with the modules it references. Use --format
mermaid or --format dot for a diagram; edges on a cycle are highlighted.

--focus (or focus_module in the config file) limits the output to the
modules connected to one module, within max_depth hops.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphFocus, "focus", "", "only show modules connected to this module")
}

func runGraph(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 0), nil)
	if err != nil {
		return err
	}
	if graphFocus != "" {
		p.Config.FocusModule = graphFocus
	}
	view, err := p.View()
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	r := &output.Report{
		Command: "graph",
		Graph:   view,
		Cycles:  view.Cycles(graph.CycleOptions{}),
	}
	if err := render(cmd, p, r); err != nil {
		return err
	}
	return finish(p, "cycles", len(r.Cycles))
}
