package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
)

// Hotspots flag values.
var (
	hotspotsMetric    string
	hotspotsTop       int
	hotspotsThreshold int
	hotspotsOver      bool
)

// hotspotsCmd ranks modules by fan-in or fan-out.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [path]",
	Short: "Rank modules by fan-in or fan-out",
	Long: `Rank modules by how many modules import them (fan-in) or how many
modules they import (fan-out). Ties are broken by path.

By default the top N modules are listed (hotspot_top, default 10). With
--over, every module whose count exceeds the threshold (hotspot_threshold,
default 10) is listed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHotspots,
}

func init() {
	hotspotsCmd.Flags().StringVarP(&hotspotsMetric, "metric", "m", "fan-in", "fan-in or fan-out")
	hotspotsCmd.Flags().IntVarP(&hotspotsTop, "top", "n", 0, "number of modules to list")
	hotspotsCmd.Flags().IntVar(&hotspotsThreshold, "threshold", 0, "threshold for --over")
	hotspotsCmd.Flags().BoolVar(&hotspotsOver, "over", false, "list every module over the threshold instead of the top N")
}

func runHotspots(cmd *cobra.Command, args []string) error {
	metric, err := graph.ParseMetric(hotspotsMetric)
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}
	if hotspotsTop < 0 || hotspotsThreshold < 0 {
		return exitError(ExitInvalidArgs, "modgraph: --top and --threshold must be >= 0")
	}
	p, err := openProject(cmd.Context(), pathArg(args, 0), func(c *config.Config) {
		c.HotspotTop = hotspotsTop
		c.HotspotThreshold = hotspotsThreshold
	})
	if err != nil {
		return err
	}
	view, err := p.View()
	if err != nil {
		return exitError(ExitInvalidArgs, "modgraph: %v", err)
	}

	r := &output.Report{Command: "hotspots", Graph: view, Metric: metric}
	if hotspotsOver || cmd.Flags().Changed("threshold") {
		r.Threshold = p.Config.HotspotThreshold
		r.Hotspots = view.OverThreshold(metric, r.Threshold)
	} else {
		r.Hotspots = view.Rank(metric, p.Config.HotspotTop)
	}
	if r.Hotspots == nil {
		r.Hotspots = []graph.Hotspot{}
	}
	if err := render(cmd, p, r); err != nil {
		return err
	}
	return finish(p, "", 0)
}
