package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/output"
)

// Dead-exports flag values.
var (
	deadEntryPoints []string
	deadSyntaxAware bool
	deadHighOnly    bool
)

// deadExportsCmd reports exported symbols nothing uses.
var deadExportsCmd = &cobra.Command{
	Use:     "dead-exports [path]",
	Aliases: []string{"dead"},
	Short:   "Find exported symbols no other module uses",
	Long: `Find exported symbols whose name appears in no other module.

Findings are graded:
  high    the name appears nowhere outside its own module
  medium  the module is an entry point or test file, or the name only
          appears in barrel files that re-export it

The search is textual, so a mention in a comment counts as a use unless
--syntax-aware is set. Exits 2 with --fail-on dead-exports when anything
is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeadExports,
}

func init() {
	deadExportsCmd.Flags().StringSliceVar(&deadEntryPoints, "entry", nil, "glob patterns for entry-point files (adds to entry_points)")
	deadExportsCmd.Flags().BoolVar(&deadSyntaxAware, "syntax-aware", false, "ignore mentions inside comments and strings")
	deadExportsCmd.Flags().BoolVar(&deadHighOnly, "high-only", false, "report only high-confidence findings")
}

func runDeadExports(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 0), func(c *config.Config) {
		c.EntryPoints = deadEntryPoints
		c.SyntaxAware = deadSyntaxAware
	})
	if err != nil {
		return err
	}
	dead, err := p.DeadExports(cmd.Context())
	if err != nil {
		return err
	}
	kept := []deadexport.DeadExport{}
	for _, d := range dead {
		if !deadHighOnly || d.Confidence == deadexport.High {
			kept = append(kept, d)
		}
	}

	if err := render(cmd, p, &output.Report{Command: "dead-exports", Graph: p.Graph(), DeadExports: kept}); err != nil {
		return err
	}
	return finish(p, "dead-exports", len(kept))
}
