package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/manifest"
	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/workspace"
)

// depsCmd compares imported packages with package.json.
var depsCmd = &cobra.Command{
	Use:   "deps [path]",
	Short: "Compare imported packages with package.json",
	Long: `List the external packages the modules reference and check them against
the package.json in the scan root:

  declared but never imported   candidates for removal
  imported but not declared     missing from the manifest
  dev dependencies imported     may be needed at run time

Node and Bun builtins are ignored, as are the packages of a pnpm, npm,
yarn, lerna or nx monorepo rooted at the scan root. Without a package.json only the
reference counts are printed. Exits 2 with --fail-on deps when the
manifest is out of step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 0), nil)
	if err != nil {
		return err
	}
	r := &output.Report{Command: "deps", External: p.Result.External}
	if r.External == nil {
		r.External = map[string]int{}
	}

	m, err := manifest.Load(cmdFS, p.Root)
	switch {
	case errors.Is(err, manifest.ErrNoManifest):
		slog.Info("no package.json in scan root; skipping manifest check", "root", p.Root)
	case err != nil:
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	default:
		layout, err := workspace.Detect(cmdFS, p.Root)
		if err != nil {
			slog.Warn("workspace detection failed", "error", err)
		} else if layout != nil {
			slog.Debug("monorepo detected", "kind", layout.Kind, "workspaces", len(layout.Workspaces))
			m.Internal = layout.PackageNames()
		}
		r.Manifest = manifest.Check(m, p.Result.External)
	}

	if err := render(cmd, p, r); err != nil {
		return err
	}
	findings := 0
	if r.Manifest != nil {
		findings = len(r.Manifest.Unused) + len(r.Manifest.Undeclared)
	}
	return finish(p, "deps", findings)
}
