package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/config"
	modgraphlog "github.com/davetashner/modgraph/internal/log"
	"github.com/davetashner/modgraph/internal/output"
)

// Global flag values.
var (
	verbose     bool
	quiet       bool
	noColor     bool
	logJSON     bool
	configPath  string
	extensions  []string
	excludeDirs []string
	excludes    []string
	workers     int
	maxFiles    int
	strict      bool
	format      string
	failOn      []string
)

// failOnChecks are the accepted --fail-on values.
var failOnChecks = []string{"cycles", "dead-exports", "deps", "drift"}

// rootCmd is the base command for modgraph.
var rootCmd = &cobra.Command{
	Use:   "modgraph",
	Short: "Static dependency graph analysis for JavaScript and TypeScript",
	Long: `Modgraph builds the module dependency graph of a JavaScript or TypeScript
source tree without running it, then answers questions about it: circular
dependencies, hotspot modules, the blast radius of a change, and exports
nobody uses.

Every command takes an optional scan root (default: current directory).
Settings come from .modgraph.yaml or .modgraph.toml in the scan root;
flags override the file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		modgraphlog.Setup(verbose, quiet, logJSON)
		if noColor {
			color.NoColor = true
		}
		for _, c := range failOn {
			if !slices.Contains(failOnChecks, c) {
				return exitError(ExitInvalidArgs, "modgraph: unknown --fail-on check %q (available: %s)",
					c, strings.Join(failOnChecks, ", "))
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&logJSON, "log-json", false, "write log records as JSON")
	pf.StringVar(&configPath, "config", "", "config file (default: .modgraph.yaml or .modgraph.toml in the scan root)")
	pf.StringSliceVar(&extensions, "ext", nil, "source extensions in resolution order (e.g. \".ts,.js\")")
	pf.StringSliceVar(&excludeDirs, "exclude-dir", nil, "directory names to skip (replaces the defaults)")
	pf.StringSliceVarP(&excludes, "exclude", "e", nil, "glob patterns to exclude, relative to the scan root")
	pf.IntVar(&workers, "workers", 0, "parallel file readers (0 = number of CPUs)")
	pf.IntVar(&maxFiles, "max-files", 0, "stop collecting after this many files (0 = unlimited)")
	pf.BoolVar(&strict, "strict", false, "exit 3 when any file could not be read or reference resolved")
	pf.StringVarP(&format, "format", "f", "", fmt.Sprintf("output format (%s; default text)", strings.Join(output.Names(), ", ")))
	pf.StringSliceVar(&failOn, "fail-on", nil, fmt.Sprintf("exit 2 when a check finds something (%s)", strings.Join(failOnChecks, ", ")))

	rootCmd.AddCommand(cyclesCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(deadExportsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// cliConfig returns the configuration given on the command line. Zero
// fields fall through to the config file.
func cliConfig() config.Config {
	var exts []string
	for _, e := range extensions {
		if e = strings.TrimSpace(e); e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return config.Config{Rules: config.Rules{
		Extensions:   exts,
		ExcludeDirs:  excludeDirs,
		ExcludeGlobs: excludes,
		Workers:      workers,
		MaxFiles:     maxFiles,
	}}
}
