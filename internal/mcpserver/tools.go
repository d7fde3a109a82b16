package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/modgraph/internal/changes"
	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/output"
	"github.com/davetashner/modgraph/internal/project"
)

// CyclesInput is the input schema for the cycles tool.
type CyclesInput struct {
	Path  string `json:"path" jsonschema:"Scan root (defaults to current directory)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Stop after this many cycles (0 = all)"`
}

// HotspotsInput is the input schema for the hotspots tool.
type HotspotsInput struct {
	Path      string `json:"path" jsonschema:"Scan root (defaults to current directory)"`
	Metric    string `json:"metric,omitempty" jsonschema:"fan-in or fan-out (default fan-in)"`
	Top       int    `json:"top,omitempty" jsonschema:"Number of modules to list (default from config, 10)"`
	Threshold int    `json:"threshold,omitempty" jsonschema:"List every module whose count exceeds this instead of the top N"`
}

// ImpactInput is the input schema for the impact tool. Exactly one of
// Module, Symbol and Since selects the seeds.
type ImpactInput struct {
	Path     string `json:"path" jsonschema:"Scan root (defaults to current directory)"`
	Module   string `json:"module,omitempty" jsonschema:"Module path, relative to the scan root or absolute"`
	Symbol   string `json:"symbol,omitempty" jsonschema:"Exported symbol name; seeds every module declaring it"`
	Since    string `json:"since,omitempty" jsonschema:"Git revision; seeds every module changed between it and HEAD"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Stop after this many hops (0 = unbounded)"`
}

// DeadExportsInput is the input schema for the dead_exports tool.
type DeadExportsInput struct {
	Path        string `json:"path" jsonschema:"Scan root (defaults to current directory)"`
	EntryPoints string `json:"entry_points,omitempty" jsonschema:"Comma-separated glob patterns for entry-point files"`
	SyntaxAware bool   `json:"syntax_aware,omitempty" jsonschema:"Ignore mentions inside comments and strings"`
	HighOnly    bool   `json:"high_only,omitempty" jsonschema:"Report only high-confidence findings"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

var readOnly = &mcp.ToolAnnotations{
	ReadOnlyHint:    true,
	DestructiveHint: boolPtr(false),
	OpenWorldHint:   boolPtr(false),
}

// registerTools adds all modgraph tools to the MCP server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cycles",
		Description: "List circular dependencies between modules. Each cycle starts at its smallest module.",
		Annotations: readOnly,
	}, handleCycles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hotspots",
		Description: "Rank modules by fan-in (how many modules import them) or fan-out (how many they import).",
		Annotations: readOnly,
	}, handleHotspots)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "impact",
		Description: "List every module that transitively depends on a module, an exported symbol, or the files changed since a git revision, with hop distances.",
		Annotations: readOnly,
	}, handleImpact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dead_exports",
		Description: "Find exported symbols that no other module mentions, graded high or medium confidence.",
		Annotations: readOnly,
	}, handleDeadExports)
}

// open resolves the path argument and builds its project.
func open(ctx context.Context, path string, cli config.Config) (*project.Project, *PathInfo, error) {
	info, err := ResolvePath(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := project.Open(ctx, info.AbsPath, project.Options{CLI: cli})
	if err != nil {
		return nil, nil, err
	}
	return p, info, nil
}

// respond renders a report as the tool's JSON text content.
func respond(r *output.Report) (*mcp.CallToolResult, any, error) {
	var buf bytes.Buffer
	if err := output.NewJSONFormatter().Format(r, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func handleCycles(ctx context.Context, _ *mcp.CallToolRequest, input CyclesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit < 0 {
		return nil, nil, fmt.Errorf("limit must be >= 0, got %d", input.Limit)
	}
	p, _, err := open(ctx, input.Path, config.Config{})
	if err != nil {
		return nil, nil, err
	}
	view, err := p.View()
	if err != nil {
		return nil, nil, err
	}
	diag := p.Result.Diagnostics
	return respond(&output.Report{
		Command:     "cycles",
		Root:        p.Root,
		Cycles:      view.Cycles(graph.CycleOptions{Limit: input.Limit}),
		Diagnostics: &diag,
	})
}

func handleHotspots(ctx context.Context, _ *mcp.CallToolRequest, input HotspotsInput) (*mcp.CallToolResult, any, error) {
	metric := graph.FanIn
	if input.Metric != "" {
		m, err := graph.ParseMetric(input.Metric)
		if err != nil {
			return nil, nil, err
		}
		metric = m
	}
	if input.Top < 0 || input.Threshold < 0 {
		return nil, nil, errors.New("top and threshold must be >= 0")
	}

	p, _, err := open(ctx, input.Path, config.Config{HotspotTop: input.Top})
	if err != nil {
		return nil, nil, err
	}
	view, err := p.View()
	if err != nil {
		return nil, nil, err
	}
	r := &output.Report{Command: "hotspots", Root: p.Root, Metric: metric}
	if input.Threshold > 0 {
		r.Threshold = input.Threshold
		r.Hotspots = view.OverThreshold(metric, input.Threshold)
	} else {
		r.Hotspots = view.Rank(metric, p.Config.HotspotTop)
	}
	return respond(r)
}

func handleImpact(ctx context.Context, _ *mcp.CallToolRequest, input ImpactInput) (*mcp.CallToolResult, any, error) {
	selectors := 0
	for _, s := range []string{input.Module, input.Symbol, input.Since} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, nil, errors.New("exactly one of module, symbol or since is required")
	}
	if input.MaxDepth < 0 {
		return nil, nil, fmt.Errorf("max_depth must be >= 0, got %d", input.MaxDepth)
	}

	p, info, err := open(ctx, input.Path, config.Config{Rules: config.Rules{MaxDepth: input.MaxDepth}})
	if err != nil {
		return nil, nil, err
	}
	g := p.Graph()
	opts := graph.ImpactOptions{MaxDepth: p.Config.MaxDepth}
	r := &output.Report{Command: "impact", Root: p.Root}

	switch {
	case input.Module != "":
		id, err := p.Lookup(input.Module)
		if err != nil {
			return nil, nil, err
		}
		r.ImpactOf = []string{g.Path(id)}
		r.Impact, err = g.Impact(id, opts)
		if err != nil {
			return nil, nil, err
		}
	case input.Symbol != "":
		r.ImpactOf = []string{input.Symbol}
		r.Impact, err = p.ImpactOfSymbol(ctx, input.Symbol)
		if err != nil {
			return nil, nil, err
		}
	default:
		set, err := changes.FromGit(nil, info.GitRoot, input.Since)
		if err != nil {
			return nil, nil, err
		}
		r.ImpactOf = set.Files
		r.Impact, _, err = changes.Impact(g, set, nil, opts)
		if err != nil {
			return nil, nil, err
		}
	}
	return respond(r)
}

func handleDeadExports(ctx context.Context, _ *mcp.CallToolRequest, input DeadExportsInput) (*mcp.CallToolResult, any, error) {
	cli := config.Config{Rules: config.Rules{
		EntryPoints: splitAndTrim(input.EntryPoints),
		SyntaxAware: input.SyntaxAware,
	}}
	p, _, err := open(ctx, input.Path, cli)
	if err != nil {
		return nil, nil, err
	}
	dead, err := p.DeadExports(ctx)
	if err != nil {
		return nil, nil, err
	}
	if input.HighOnly {
		kept := dead[:0]
		for _, d := range dead {
			if d.Confidence == deadexport.High {
				kept = append(kept, d)
			}
		}
		dead = kept
	}
	diag := p.Result.Diagnostics
	return respond(&output.Report{Command: "dead-exports", Root: p.Root, DeadExports: dead, Diagnostics: &diag})
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
