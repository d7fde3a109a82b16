package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/workspace"
)

var configInitForce bool

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and check modgraph configuration",
	Long: `Create and check the configuration file.

Modgraph reads .modgraph.yaml, .modgraph.yml or .modgraph.toml from the
scan root, in that order. Command-line flags override file values.`,
}

// configInitCmd writes a starter config file.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter .modgraph.yaml",
	Long: `Write .modgraph.yaml with the built-in defaults spelled out. In a pnpm,
npm, yarn, lerna or nx monorepo, the index file of every workspace package
is listed as an entry point.

Existing files are left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// configValidateCmd checks a config file without building the graph.
var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the config file for errors",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigValidate,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing .modgraph.yaml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

// resolveDir returns the absolute directory for a path argument.
func resolveDir(arg string) (string, error) {
	abs, err := cmdFS.Abs(arg)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "modgraph: cannot resolve path %q (%v)", arg, err)
	}
	info, err := cmdFS.Stat(abs)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "modgraph: path %q does not exist", arg)
	}
	if !info.IsDir() {
		return "", exitError(ExitInvalidArgs, "modgraph: %q is not a directory", arg)
	}
	return abs, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := resolveDir(pathArg(args, 0))
	if err != nil {
		return err
	}
	target := filepath.Join(root, config.FileName)
	if _, err := cmdFS.Stat(target); err == nil && !configInitForce {
		return exitError(ExitInvalidArgs, "modgraph: %s already exists (use --force to overwrite)", config.FileName)
	}

	cfg := config.Finalize(config.Config{})
	layout, err := workspace.Detect(cmdFS, root)
	if err != nil {
		slog.Warn("workspace detection failed", "error", err)
	} else if layout != nil {
		cfg.EntryPoints = layout.EntryPoints()
	}

	var buf bytes.Buffer
	buf.WriteString("# modgraph configuration. Command-line flags override these values.\n")
	if err := config.Write(&buf, &cfg); err != nil {
		return err
	}
	if err := cmdFS.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return exitError(ExitInvalidArgs, "modgraph: failed to write %s (%v)", config.FileName, err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", color.GreenString("created"), target)
	if layout != nil {
		_, _ = fmt.Fprintf(w, "  %s monorepo with %d workspaces; their index files are entry points\n",
			layout.Kind, len(layout.Workspaces))
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	root, err := resolveDir(pathArg(args, 0))
	if err != nil {
		return err
	}

	var cfg *config.Config
	path := configPath
	if path != "" {
		cfg, err = config.LoadFile(cmdFS, path)
	} else {
		cfg, path, err = config.Load(cmdFS, root)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitError(ExitInvalidArgs, "modgraph: config file %q not found", path)
		}
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	if path == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no config file; using defaults")
		return nil
	}
	if err := config.Validate(cfg); err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %s: %v", path, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("valid"), path)
	return nil
}
