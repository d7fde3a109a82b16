package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
)

// moveCmd plans the specifier rewrites for moving a module.
var moveCmd = &cobra.Command{
	Use:   "move <from> <to> [path]",
	Short: "Plan the import rewrites for moving a module",
	Long: `List every specifier that must change if module <from> moves to <to>:
the imports of every module that references it, and the moved module's
own relative imports. Nothing is written; <to> may be relative to the
scan root or absolute.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 2), nil)
	if err != nil {
		return err
	}
	from, err := p.Lookup(args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	plan, err := p.Graph().MovePlan(from, args[1])
	if err != nil {
		if errors.Is(err, graph.ErrSeedNotFound) {
			return exitError(ExitInvalidArgs, "modgraph: %v", err)
		}
		return err
	}
	if err := render(cmd, p, &output.Report{Command: "move", Graph: p.Graph(), Move: plan}); err != nil {
		return err
	}
	return finish(p, "", 0)
}
