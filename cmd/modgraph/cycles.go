package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
)

var cyclesLimit int

// cyclesCmd lists circular dependencies.
var cyclesCmd = &cobra.Command{
	Use:   "cycles [path]",
	Short: "List circular dependencies between modules",
	Long: `List every elementary cycle in the module graph. Each cycle is printed
starting at its lexicographically smallest module; a module importing
itself is a cycle of one.

Exits 2 with --fail-on cycles when any cycle is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCycles,
}

func init() {
	cyclesCmd.Flags().IntVar(&cyclesLimit, "limit", 0, "stop after this many cycles (0 = all)")
}

func runCycles(cmd *cobra.Command, args []string) error {
	if cyclesLimit < 0 {
		return exitError(ExitInvalidArgs, "modgraph: --limit must be >= 0 (got %d)", cyclesLimit)
	}
	p, err := openProject(cmd.Context(), pathArg(args, 0), nil)
	if err != nil {
		return err
	}
	view, err := p.View()
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	cycles := view.Cycles(graph.CycleOptions{Limit: cyclesLimit})
	if cycles == nil {
		cycles = []graph.Cycle{}
	}
	if err := render(cmd, p, &output.Report{Command: "cycles", Graph: view, Cycles: cycles}); err != nil {
		return err
	}
	return finish(p, "cycles", len(cycles))
}
