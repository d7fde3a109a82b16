// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/changes"
	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/project"
)

// Impact flag values.
var (
	impactSymbol   string
	impactDiff     string
	impactSince    string
	impactMaxDepth int
)

// impactCmd lists the transitive dependents of a module, symbol or change.
var impactCmd = &cobra.Command{
	Use:   "impact [module] [path]",
	Short: "List every module affected by a change",
	Long: `List every module that transitively depends on the seed, with its
hop distance. The seed is one of:

  modgraph impact src/util.ts          a module
  modgraph impact --symbol parseDate   every module exporting a symbol
  modgraph impact --diff change.patch  every module a unified diff touches ("-" reads stdin)
  modgraph impact --since main         every module changed between a git revision and HEAD

With --symbol, --diff or --since the first argument is the scan root.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVarP(&impactSymbol, "symbol", "s", "", "seed with every module exporting this symbol")
	impactCmd.Flags().StringVar(&impactDiff, "diff", "", "seed with the files a unified diff touches (\"-\" for stdin)")
	impactCmd.Flags().StringVar(&impactSince, "since", "", "seed with the files changed since this git revision")
	impactCmd.Flags().IntVarP(&impactMaxDepth, "max-depth", "d", 0, "stop after this many hops (0 = unbounded)")
	impactCmd.MarkFlagsMutuallyExclusive("symbol", "diff", "since")
}

func runImpact(cmd *cobra.Command, args []string) error {
	byModule := impactSymbol == "" && impactDiff == "" && impactSince == ""
	rootIdx := 0
	if byModule {
		if len(args) == 0 {
			return exitError(ExitInvalidArgs, "modgraph: impact needs a module, --symbol, --diff or --since")
		}
		rootIdx = 1
	} else if len(args) > 1 {
		return exitError(ExitInvalidArgs, "modgraph: too many arguments")
	}
	if impactMaxDepth < 0 {
		return exitError(ExitInvalidArgs, "modgraph: --max-depth must be >= 0 (got %d)", impactMaxDepth)
	}

	p, err := openProject(cmd.Context(), pathArg(args, rootIdx), func(c *config.Config) {
		c.MaxDepth = impactMaxDepth
	})
	if err != nil {
		return err
	}

	r := &output.Report{Command: "impact", Graph: p.Graph()}
	switch {
	case byModule:
		err = impactOfModule(p, args[0], r)
	case impactSymbol != "":
		r.ImpactOf = []string{impactSymbol}
		r.Impact, err = p.ImpactOfSymbol(cmd.Context(), impactSymbol)
	default:
		err = impactOfChanges(cmd, p, r)
	}
	if err != nil {
		if errors.Is(err, graph.ErrSeedNotFound) || errors.Is(err, changes.ErrNoSeeds) {
			return exitError(ExitInvalidArgs, "modgraph: %v", err)
		}
		return err
	}

	if err := render(cmd, p, r); err != nil {
		return err
	}
	return finish(p, "", 0)
}

func impactOfModule(p *project.Project, arg string, r *output.Report) error {
	id, err := p.Lookup(arg)
	if err != nil {
		return err
	}
	g := p.Graph()
	r.ImpactOf = []string{g.Path(id)}
	r.Impact, err = g.Impact(id, graph.ImpactOptions{MaxDepth: p.Config.MaxDepth})
	return err
}

func impactOfChanges(cmd *cobra.Command, p *project.Project, r *output.Report) error {
	var set *changes.Set
	var err error
	if impactSince != "" {
		set, err = changes.FromGit(cmdGit, p.Root, impactSince)
	} else {
		set, err = readDiff(cmd, impactDiff)
		if err == nil {
			set.Base = diffBase(p.Root)
		}
	}
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}

	impact, skipped, err := changes.Impact(p.Graph(), set, cmdFS, graph.ImpactOptions{MaxDepth: p.Config.MaxDepth})
	if len(skipped) > 0 {
		slog.Info("changed files outside the graph", "count", len(skipped), "files", strings.Join(skipped, ","))
	}
	if err != nil {
		return err
	}
	r.ImpactOf = set.Files
	r.Impact = impact
	return nil
}

// readDiff parses a unified diff from a file or, for "-", from stdin.
func readDiff(cmd *cobra.Command, name string) (*changes.Set, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = cmdFS.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return changes.FromUnifiedDiff(data)
}

// diffBase is the directory diff paths are relative to: the working tree
// of the repository containing root, or root itself outside a repository.
func diffBase(root string) string {
	repo, err := cmdGit.PlainOpen(root)
	if err != nil {
		return root
	}
	top, err := repo.Root()
	if err != nil {
		return root
	}
	return top
}
