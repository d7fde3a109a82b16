// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/snapshot"
)

var snapshotUpdate bool

// snapshotCmd is the parent command for graph snapshots.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the graph and report drift against it",
	Long: `Save the module graph under .modgraph/last-graph.json and later compare
a fresh build against it: added and removed modules and edges, new and
resolved cycles.

  modgraph snapshot save          record the current graph
  modgraph snapshot diff          show what changed since the last save
  modgraph snapshot diff --update show the drift, then record the new graph

Exits 2 with --fail-on drift when the graph changed.`,
}

// snapshotSaveCmd records the current graph.
var snapshotSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Record the current graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotSave,
}

// snapshotDiffCmd compares the current graph with the saved one.
var snapshotDiffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show how the graph changed since the last save",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotDiff,
}

func init() {
	snapshotDiffCmd.Flags().BoolVar(&snapshotUpdate, "update", false, "save the current graph after diffing")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
}

func snapshotStore() snapshot.Store {
	return snapshot.Store{FS: cmdFS, Git: cmdGit}
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 0), nil)
	if err != nil {
		return err
	}
	store := snapshotStore()
	snap := store.Take(p.Root, p.Graph())
	if err := store.Save(p.Root, snap); err != nil {
		return exitError(ExitInvalidArgs, "modgraph: failed to save snapshot (%v)", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s: %d modules, %d edges, %d cycles\n",
		snap.ID, len(snap.Modules), len(snap.Edges), len(snap.Cycles))
	return finish(p, "", 0)
}

func runSnapshotDiff(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd.Context(), pathArg(args, 0), nil)
	if err != nil {
		return err
	}
	store := snapshotStore()
	prev, err := store.Load(p.Root)
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: failed to load snapshot (%v)", err)
	}
	if prev == nil {
		slog.Info("no saved snapshot; comparing against an empty graph", "path", snapshot.Path(p.Root))
	}

	cur := store.Take(p.Root, p.Graph())
	diff := snapshot.ComputeDiff(prev, cur)
	if err := render(cmd, p, &output.Report{Command: "snapshot", Drift: diff}); err != nil {
		return err
	}

	if snapshotUpdate {
		if err := store.Save(p.Root, cur); err != nil {
			return exitError(ExitInvalidArgs, "modgraph: failed to save snapshot (%v)", err)
		}
		slog.Debug("snapshot updated", "id", cur.ID)
	}

	changed := len(diff.AddedModules) + len(diff.RemovedModules) +
		len(diff.AddedEdges) + len(diff.RemovedEdges) + len(diff.NewCycles) + len(diff.ResolvedCycles)
	return finish(p, "drift", changed)
}
