// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/project"
)

// pathArg returns the scan root argument at index i, or ".".
func pathArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "."
}

// openProject loads the config for path, merges the global flags over it
// and builds the graph. extra carries command-specific settings and wins
// over both.
func openProject(ctx context.Context, path string, extra func(*config.Config)) (*project.Project, error) {
	cli := cliConfig()
	if extra != nil {
		extra(&cli)
	}
	p, err := project.Open(ctx, path, project.Options{CLI: cli, ConfigPath: configPath, LocalPaths: true, FS: cmdFS})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	slog.Debug("graph built",
		"root", p.Root,
		"modules", p.Graph().Len(),
		"diagnostics", p.Result.Diagnostics.Summary(),
	)
	return p, nil
}

// formatter picks the --format flag, then the config file's format, then
// text.
func formatter(cfg config.Config) (output.Formatter, error) {
	name := format
	if name == "" {
		name = cfg.Format
	}
	if name == "" {
		name = "text"
	}
	f, err := output.GetFormatter(name)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	return f, nil
}

// render writes r in the selected format and attaches the build's
// diagnostics.
func render(cmd *cobra.Command, p *project.Project, r *output.Report) error {
	f, err := formatter(p.Config)
	if err != nil {
		return err
	}
	if r.Root == "" {
		r.Root = p.Root
	}
	if r.Diagnostics == nil {
		diag := p.Result.Diagnostics
		r.Diagnostics = &diag
	}
	if err := f.Format(r, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("write %s output: %w", f.Name(), err)
	}
	return nil
}

// finish maps the outcome of a command to its exit code. Incomplete input
// under --strict wins over findings, since the findings may be wrong.
func finish(p *project.Project, check string, findings int) error {
	if strict && !p.Result.Diagnostics.Clean() {
		return exitError(ExitPartialFailure, "modgraph: incomplete graph (%s)", p.Result.Diagnostics.Summary())
	}
	if findings > 0 && slices.Contains(failOn, check) {
		return exitError(ExitFindings, "modgraph: %s check failed (%d found)", check, findings)
	}
	return nil
}
