// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/project"
	"github.com/davetashner/modgraph/internal/watch"
)

var watchDebounce time.Duration

// watchCmd rebuilds the graph whenever sources change.
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rebuild the graph on every change and report cycles",
	Long: `Build the graph, print its cycles and warnings, then watch the scan root
and rebuild after every batch of source or config changes. Each rebuild is
a full build. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := pathArg(args, 0)
	p, err := openProject(ctx, root, nil)
	if err != nil {
		return err
	}
	if err := watchReport(cmd, p); err != nil {
		return err
	}

	w, err := watch.New(cmdFS, p.Root, p.Config.Rules, watchDebounce)
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: cannot watch %s (%v)", p.Root, err)
	}
	defer w.Close() //nolint:errcheck // best-effort close on exit

	slog.Info("watching for changes", "root", p.Root)
	err = w.Run(ctx, func(ctx context.Context, changed []string) error {
		slog.Debug("rebuilding", "changed", changed)
		p, err := openProject(ctx, root, nil)
		if err != nil {
			return err
		}
		return watchReport(cmd, p)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchReport prints one build: a status line, then its cycles and
// warnings in the selected format.
func watchReport(cmd *cobra.Command, p *project.Project) error {
	view, err := p.View()
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	cycles := view.Cycles(graph.CycleOptions{})
	if cycles == nil {
		cycles = []graph.Cycle{}
	}
	slog.Info("graph built",
		"at", time.Now().Format(time.TimeOnly),
		"modules", view.Len(),
		"edges", len(view.Edges),
		"cycles", len(cycles),
	)
	if err := render(cmd, p, &output.Report{Command: "cycles", Graph: view, Cycles: cycles}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
